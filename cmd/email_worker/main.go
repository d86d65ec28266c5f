package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/config"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
	"github.com/oksasatya/course-marketplace/pkg/mailer"
	mailtpl "github.com/oksasatya/course-marketplace/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		logger.Fatalf("amqp consumer: %v", err)
	}
	defer consumer.Close()

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range consumer.Msgs {
			var job mailer.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				logger.WithError(err).Warn("bad message")
				_ = msg.Nack(false, false)
				continue
			}
			helpers.EnsureRecipientAndEmail(&job)
			helpers.NormalizeTemplate(&job)

			subject, text, html := job.Subject, job.Text, job.HTML
			if job.Template != "" {
				s, t, h, rerr := mailtpl.Render(job.Template, job.Data)
				if rerr != nil {
					logger.WithError(rerr).WithField("template", job.Template).Error("render failed")
					_ = msg.Nack(false, false)
					continue
				}
				subject, text, html = s, t, h
			}

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			tags := []string{"transactional"}
			if job.Template != "" {
				tags = append(tags, job.Template)
			}
			id, err := mg.Send(c, job.To, subject, text, html, tags...)
			cancel()
			if err != nil {
				logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Warn("send failed, requeueing")
				_ = msg.Nack(false, true)
				continue
			}
			logger.WithFields(logrus.Fields{"message_id": id, "template": job.Template}).Info("email sent")
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
