package utils

import (
    "fmt"
    "net/smtp"
    "os"
)

// SendMail sends a plain-text email over SMTP.  Connection details come
// from the SMTP_HOST/SMTP_PORT/SMTP_USER/SMTP_PASS environment
// variables.  When SMTP is not configured an error is returned so
// callers can log and move on; mail is never on a request's critical
// path.
func SendMail(to, subject, body string) error {
    host := os.Getenv("SMTP_HOST")
    port := os.Getenv("SMTP_PORT")
    user := os.Getenv("SMTP_USER")
    pass := os.Getenv("SMTP_PASS")

    if host == "" || port == "" || user == "" || pass == "" {
        return fmt.Errorf("smtp not configured")
    }

    addr := host + ":" + port
    from := user

    msg := "From: " + from + "\r\n" +
        "To: " + to + "\r\n" +
        "Subject: " + subject + "\r\n" +
        "Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
        body + "\r\n"

    auth := smtp.PlainAuth("", user, pass, host)
    return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}
