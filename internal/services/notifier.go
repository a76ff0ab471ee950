package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/gomail.v2"

	"github.com/eymatos/jurisia/internal/config"
	"github.com/eymatos/jurisia/internal/core"
	"github.com/eymatos/jurisia/internal/models"
	"github.com/eymatos/jurisia/internal/pkg/logger"
)

// Mailer sends one notification email. Split from the notifier so the sweep
// logic is testable without an SMTP server.
type Mailer interface {
	Send(destinatario, asunto, cuerpoHTML string) error
}

// SMTPMailer delivers through the firm's SMTP account.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPUser,
	}
}

func (m *SMTPMailer) Send(destinatario, asunto, cuerpoHTML string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", destinatario)
	msg.SetHeader("Subject", asunto)
	msg.SetBody("text/html", cuerpoHTML)
	return m.dialer.DialAndSend(msg)
}

// Notificador runs the daily deadline sweep: every alert due within the
// horizon that has not been completed or already notified gets an email, and
// is then marked notified so the next sweep skips it.
type Notificador struct {
	db           core.DbClient
	mailer       Mailer
	destinatario string
	horizonte    time.Duration
	cron         *cron.Cron
	spec         string
	log          *logger.Logger
}

func NewNotificador(db core.DbClient, mailer Mailer, cfg *config.Config, log *logger.Logger) *Notificador {
	return &Notificador{
		db:           db,
		mailer:       mailer,
		destinatario: cfg.AbogadoEmail,
		horizonte:    72 * time.Hour,
		spec:         cfg.CronSpec,
		log:          log,
	}
}

// Start schedules the sweep. It returns an error when the cron expression is
// invalid so a bad deploy fails at boot instead of silently never firing.
func (n *Notificador) Start() error {
	n.cron = cron.New()
	_, err := n.cron.AddFunc(n.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := n.Sweep(ctx); err != nil {
			n.log.Error("barrido de alertas falló", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("programar notificador (%q): %w", n.spec, err)
	}
	n.cron.Start()
	n.log.Info("notificador de vencimientos programado", "cron", n.spec)
	return nil
}

func (n *Notificador) Stop() {
	if n.cron != nil {
		n.cron.Stop()
	}
}

// Sweep emails every pending alert due within the horizon. Each alert is
// marked notified only after its email goes out, so a failed send is retried
// on the next run while a sent one is never duplicated.
func (n *Notificador) Sweep(ctx context.Context) error {
	if n.destinatario == "" {
		n.log.Warn("ABOGADO_EMAIL no configurado, omitiendo barrido")
		return nil
	}

	alertas, err := n.db.ListAlertasPorNotificar(ctx, time.Now().Add(n.horizonte))
	if err != nil {
		return fmt.Errorf("listar alertas por notificar: %w", err)
	}

	for _, a := range alertas {
		asunto := fmt.Sprintf("⚖️ Vencimiento próximo: %s", a.Titulo)
		if err := n.mailer.Send(n.destinatario, asunto, cuerpoAlerta(a)); err != nil {
			n.log.Error("no se pudo enviar la notificación", "alerta", a.ID, "error", err)
			continue
		}
		if err := n.db.MarkAlertaNotificada(ctx, a.ID); err != nil {
			return fmt.Errorf("marcar alerta %s notificada: %w", a.ID, err)
		}
		n.log.Info("alerta notificada", "alerta", a.ID, "vence", a.FechaVencimiento.Format("2006-01-02"))
	}
	return nil
}

func cuerpoAlerta(a models.Alerta) string {
	return fmt.Sprintf(
		"<h2>%s</h2><p>%s</p><p><b>Fecha de vencimiento:</b> %s<br><b>Prioridad:</b> %s</p>",
		a.Titulo, a.Descripcion, a.FechaVencimiento.Format("02/01/2006"), a.Prioridad,
	)
}
