package email

import (
	"fmt"
	"html"
)

const layout = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
           background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); margin: 0; padding: 40px 20px; }
    .container { max-width: 600px; margin: 0 auto; background: rgba(255,255,255,0.95);
                 border-radius: 20px; padding: 40px; }
    .logo { font-size: 32px; font-weight: bold; text-align: center; }
    .code { font-size: 36px; letter-spacing: 8px; font-weight: bold; text-align: center;
            background: #f4f4f8; border-radius: 12px; padding: 20px; margin: 24px 0; }
    .footer { color: #888; font-size: 12px; text-align: center; margin-top: 32px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="logo">LearnHub LMS</div>
    %s
    <div class="footer">If you did not expect this email, you can safely ignore it.</div>
  </div>
</body>
</html>`

func renderCodeTemplate(name, heading, intro, code string) string {
	body := fmt.Sprintf(`<h2>%s</h2>
    <p>Hi %s,</p>
    <p>%s</p>
    <div class="code">%s</div>`,
		html.EscapeString(heading),
		html.EscapeString(name),
		html.EscapeString(intro),
		html.EscapeString(code),
	)
	return fmt.Sprintf(layout, body)
}

func renderWelcomeTemplate(name string) string {
	body := fmt.Sprintf(`<h2>Welcome aboard!</h2>
    <p>Hi %s,</p>
    <p>Your email is verified and your account is ready. Start with an assessment
    to see where you stand and get a personalized development plan.</p>`,
		html.EscapeString(name),
	)
	return fmt.Sprintf(layout, body)
}
