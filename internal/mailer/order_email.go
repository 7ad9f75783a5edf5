package mailer

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

// Brand is the sender identity printed in order emails.
type Brand struct {
	Name         string
	SupportEmail string
	Phone        string
}

type orderEmailData struct {
	Brand   Brand
	Message string
	Year    int
}

var orderText = texttemplate.Must(texttemplate.New("order.txt").Parse(`Hello,

Please find attached our purchase order request from {{.Brand.Name}}.
{{if .Message}}
Message from the customer:
{{.Message}}
{{end}}
Both an Excel sheet and a PDF copy of the order are attached.

For any questions, contact {{.Brand.SupportEmail}} or call {{.Brand.Phone}}.

Thank you,
{{.Brand.Name}}
`))

var orderHTML = htmltemplate.Must(htmltemplate.New("order.html").Parse(`<div style="font-family:Arial,sans-serif;color:#333;max-width:600px;margin:0 auto">
  <div style="background:#0D47A1;color:#fff;padding:16px 24px">
    <h2 style="margin:0">{{.Brand.Name}}</h2>
    <p style="margin:4px 0 0">Purchase Order Request</p>
  </div>
  <div style="padding:24px">
    <p>Hello,</p>
    <p>Please find attached our purchase order request. Both an Excel sheet and a PDF copy of the order are attached.</p>
    {{- if .Message}}
    <div style="background:#F3F6FA;border-left:4px solid #1976D2;padding:12px 16px;margin:16px 0">
      <strong>Message from the customer:</strong>
      <p style="margin:8px 0 0;white-space:pre-wrap">{{.Message}}</p>
    </div>
    {{- end}}
    <p>For any questions, contact <a href="mailto:{{.Brand.SupportEmail}}">{{.Brand.SupportEmail}}</a> or call {{.Brand.Phone}}.</p>
    <p>Thank you,<br>{{.Brand.Name}}</p>
  </div>
  <div style="background:#f5f5f5;color:#666;font-size:12px;padding:12px 24px;text-align:center">
    &copy; {{.Year}} {{.Brand.Name}}. All rights reserved.
  </div>
</div>
`))

func OrderSubject(brand Brand) string {
	return "Purchase Order Request – " + brand.Name
}

// ComposeOrderEmail builds the supplier email for an order with both
// rendered documents attached.
func ComposeOrderEmail(brand Brand, to, message string, xlsx, pdf []byte, now time.Time) (*Message, error) {
	data := orderEmailData{Brand: brand, Message: strings.TrimSpace(message), Year: now.Year()}

	var text, html bytes.Buffer
	if err := orderText.Execute(&text, data); err != nil {
		return nil, err
	}
	if err := orderHTML.Execute(&html, data); err != nil {
		return nil, err
	}

	return &Message{
		To:      to,
		Subject: OrderSubject(brand),
		Text:    text.String(),
		HTML:    html.String(),
		Attachments: []Attachment{
			{
				Filename:    "order.xlsx",
				ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				Content:     xlsx,
			},
			{Filename: "order.pdf", ContentType: "application/pdf", Content: pdf},
		},
	}, nil
}
