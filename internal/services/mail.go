package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to, subject, body string) {
	if !s.Enabled {
		return
	}
	go func() {
		msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
			s.From, to, subject, body)
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := s.Host + ":" + s.Port
		if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg)); err != nil {
			log.Printf("Failed to send mail to %s: %v", to, err)
		}
	}()
}

// SendVerificationEmail mails the signup confirmation code.
func (s *MailService) SendVerificationEmail(to, code string) {
	body := fmt.Sprintf("Welcome to fleamarket!\n\nYour email verification code is: %s\n\nEnter it on the confirmation page to activate your account.", code)
	s.sendAsync(to, "Confirm your fleamarket account", body)
}
