package service

import (
	htmlTemplate "html/template"
	textTemplate "text/template"
)

var ownerTextTemplate = textTemplate.Must(textTemplate.New("owner-text").Parse(`Nuevo pedido #{{.OrderID}}
{{if .Milestone}}
*** Pedido número {{.PaidOrders}} de este cliente: le corresponde un regalo. ***
{{end}}
Cliente: {{.CustomerName}} <{{.CustomerEmail}}>
Entrega: {{if .Pickup}}Recogida en tienda{{else}}Envío a {{.Address}}{{end}}

Productos:
{{range .Items}}- {{.Name}}{{if .Variant}} ({{.Variant}}){{end}} x{{.Quantity}}: {{.LineTotal}} EUR
{{end}}
Subtotal: {{.Subtotal}} EUR
Envío: {{.Shipping}} EUR
Total: {{.Total}} EUR

Pedidos pagados del cliente: {{.PaidOrders}} (nivel {{.Tier}})
`))

var ownerHTMLTemplate = htmlTemplate.Must(htmlTemplate.New("owner-html").Parse(`<h2>Nuevo pedido #{{.OrderID}}</h2>
{{if .Milestone}}<p style="background:#fdf1c7;padding:12px;font-weight:bold">Pedido número {{.PaidOrders}} de este cliente: le corresponde un regalo.</p>{{end}}
<h3>Cliente</h3>
<p>{{.CustomerName}}<br>{{.CustomerEmail}}</p>
<h3>Entrega</h3>
<p>{{if .Pickup}}Recogida en tienda{{else}}Envío a {{.Address}}{{end}}</p>
<table cellpadding="4">
<tr><th align="left">Producto</th><th>Cantidad</th><th align="right">Total</th></tr>
{{range .Items}}<tr><td>{{.Name}}{{if .Variant}} <small>({{.Variant}})</small>{{end}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.LineTotal}} &euro;</td></tr>
{{end}}</table>
<p>Subtotal: {{.Subtotal}} &euro;<br>Envío: {{.Shipping}} &euro;<br><strong>Total: {{.Total}} &euro;</strong></p>
<p>Pedidos pagados del cliente: {{.PaidOrders}} (nivel {{.Tier}})</p>
`))

var customerTextTemplate = textTemplate.Must(textTemplate.New("customer-text").Parse(`Hola {{.CustomerName}},

Gracias por tu compra en {{.StoreName}}. Hemos recibido el pago de tu pedido #{{.OrderID}}.

{{range .Items}}- {{.Name}}{{if .Variant}} ({{.Variant}}){{end}} x{{.Quantity}}: {{.LineTotal}} EUR
{{end}}
Total: {{.Total}} EUR
{{if .Pickup}}Te avisaremos cuando puedas recogerlo en la tienda.{{else}}Lo enviaremos a: {{.Address}}{{end}}

Tu nivel: {{.Tier}}{{if .NextTier}} ({{.OrdersToNextTier}} pedidos más para {{.NextTier}}){{end}}
{{if .Milestone}}¡Enhorabuena! Con este pedido has ganado un regalo.{{else}}Te faltan {{.OrdersToNextReward}} pedidos para tu próximo regalo.{{end}}
`))

var customerHTMLTemplate = htmlTemplate.Must(htmlTemplate.New("customer-html").Parse(`<p>Hola {{.CustomerName}},</p>
<p>Gracias por tu compra en {{.StoreName}}. Hemos recibido el pago de tu pedido <strong>#{{.OrderID}}</strong>.</p>
<ul>
{{range .Items}}<li>{{.Name}}{{if .Variant}} ({{.Variant}}){{end}} x{{.Quantity}}: {{.LineTotal}} &euro;</li>
{{end}}</ul>
<p><strong>Total: {{.Total}} &euro;</strong></p>
<p>{{if .Pickup}}Te avisaremos cuando puedas recogerlo en la tienda.{{else}}Lo enviaremos a: {{.Address}}{{end}}</p>
<p>Tu nivel: <strong>{{.Tier}}</strong>{{if .NextTier}} ({{.OrdersToNextTier}} pedidos más para {{.NextTier}}){{end}}</p>
{{if .Milestone}}<p style="background:#e5f6e8;padding:12px">¡Enhorabuena! Con este pedido has ganado un regalo.</p>{{else}}<p>Te faltan {{.OrdersToNextReward}} pedidos para tu próximo regalo.</p>{{end}}
`))
