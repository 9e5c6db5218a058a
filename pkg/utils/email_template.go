package utils

import (
	"fmt"
	"html"
	"strings"
)

// EmailRow is one label/value line of ride or booking context in an email.
type EmailRow struct {
	Label string
	Value string
}

// EmailHTML renders the shared UrbiX email layout: dark table-based markup
// that survives Gmail, with an optional status badge, context rows and a
// call-to-action button.
func EmailHTML(title, subtitle, badge string, rows []EmailRow, ctaText, ctaURL, footerNote string) string {
	var b strings.Builder

	b.WriteString(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width" />
    <title>` + html.EscapeString(title) + `</title>
  </head>
  <body style="margin:0;padding:0;background:#07080c;">
    <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background:#07080c;padding:24px 0;">
      <tr>
        <td align="center">
          <table role="presentation" width="600" cellspacing="0" cellpadding="0" style="width:600px;max-width:92%;border-radius:18px;overflow:hidden;border:1px solid rgba(255,255,255,0.10);">
            <tr>
              <td style="background:linear-gradient(135deg,#7c3aed 0%,#4f46e5 45%,#22c55e 100%);padding:1px;"></td>
            </tr>
            <tr>
              <td style="background:rgba(255,255,255,0.03);padding:22px 24px 14px 24px;">
                <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                  <tr>
                    <td align="left" style="font-family:Inter,Segoe UI,Roboto,Arial,sans-serif;color:#ffffff;">
                      <div style="font-size:14px;letter-spacing:0.22em;text-transform:uppercase;color:rgba(255,255,255,0.75);">URBIX</div>
                      <div style="margin-top:10px;font-size:22px;font-weight:800;line-height:1.2;">` + html.EscapeString(title) + `</div>
                      <div style="margin-top:8px;font-size:14px;line-height:1.6;color:rgba(255,255,255,0.75);">` + html.EscapeString(subtitle) + `</div>
                    </td>
                    <td align="right" style="font-family:Inter,Segoe UI,Roboto,Arial,sans-serif;">`)

	if badge != "" {
		b.WriteString(`<span style="display:inline-block;padding:8px 12px;border-radius:999px;font-size:12px;font-weight:700;color:#ffffff;background:rgba(34,197,94,0.18);border:1px solid rgba(34,197,94,0.35);">` +
			html.EscapeString(badge) + `</span>`)
	}

	b.WriteString(`</td>
                  </tr>
                </table>
              </td>
            </tr>
            <tr>
              <td style="background:#0b0d14;padding:18px 24px 22px 24px;">
                <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="border-radius:16px;border:1px solid rgba(255,255,255,0.10);background:rgba(255,255,255,0.02);">
                  <tr>
                    <td style="padding:18px 18px 14px 18px;">`)

	for _, row := range rows {
		fmt.Fprintf(&b, `
                      <table role="presentation" width="100%%" cellspacing="0" cellpadding="0" style="margin-bottom:10px;">
                        <tr>
                          <td align="left" style="font-family:Inter,Segoe UI,Roboto,Arial,sans-serif;font-size:12px;color:rgba(255,255,255,0.55);">%s</td>
                          <td align="right" style="font-family:Inter,Segoe UI,Roboto,Arial,sans-serif;font-size:13px;color:#ffffff;">%s</td>
                        </tr>
                      </table>`,
			html.EscapeString(row.Label), html.EscapeString(row.Value))
	}

	if ctaText != "" {
		href := ctaURL
		if href == "" {
			href = "#"
		}
		fmt.Fprintf(&b, `
                      <table role="presentation" width="100%%" cellspacing="0" cellpadding="0" style="margin-top:14px;">
                        <tr>
                          <td align="center">
                            <a href="%s" style="display:inline-block;padding:12px 22px;border-radius:12px;background:#4f46e5;color:#ffffff;font-family:Inter,Segoe UI,Roboto,Arial,sans-serif;font-size:14px;font-weight:700;text-decoration:none;">%s</a>
                          </td>
                        </tr>
                      </table>`,
			html.EscapeString(href), html.EscapeString(ctaText))
	}

	b.WriteString(`
                    </td>
                  </tr>
                </table>
                <div style="margin-top:16px;text-align:center;font-family:Inter,Segoe UI,Roboto,Arial,sans-serif;font-size:12px;color:rgba(255,255,255,0.45);">` +
		html.EscapeString(footerNote) + `</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>`)

	return b.String()
}
