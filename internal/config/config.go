package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	LocalStorePath string

	JWTSecret  string
	SessionTTL time.Duration

	// MasterLogin vazio desativa o login master.
	MasterLogin    string
	MasterPassword string

	RabbitMQURL string

	MailHost     string
	MailPort     int
	MailUser     string
	MailPassword string
	MailFrom     string
	// MailOpsTo recebe o alerta de novo lead.
	MailOpsTo string

	WhatsAppToken    string
	WhatsAppPhoneID  string
	WhatsAppBaseURL  string
	WhatsAppTemplate string

	HTTPAddr          string
	AllowedOrigins    []string
	ReconcileInterval time.Duration
}

// Load lê o .env (se existir) e depois o ambiente.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("erro ao carregar %v: %w", files, err)
	} else if err != nil {
		log.Println("[config] .env não encontrado, usando apenas variáveis de ambiente")
	}

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		LocalStorePath:   getenv("LOCAL_STORE_PATH", "prodoc-local.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		MasterLogin:      os.Getenv("MASTER_LOGIN"),
		MasterPassword:   os.Getenv("MASTER_PASSWORD"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		MailHost:         os.Getenv("MAIL_HOST"),
		MailUser:         os.Getenv("MAIL_USER"),
		MailPassword:     os.Getenv("MAIL_PASS"),
		MailFrom:         getenv("MAIL_FROM", "nao-responda@prodoc.com.br"),
		MailOpsTo:        os.Getenv("MAIL_OPS_TO"),
		WhatsAppToken:    os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID:  os.Getenv("WHATSAPP_PHONE_ID"),
		WhatsAppBaseURL:  getenv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v18.0"),
		WhatsAppTemplate: getenv("WHATSAPP_STATUS_TEMPLATE", "status_processo"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AllowedOrigins:   splitList(getenv("ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	var err error
	if cfg.MailPort, err = strconv.Atoi(getenv("MAIL_PORT", "587")); err != nil {
		return nil, fmt.Errorf("MAIL_PORT inválida: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(getenv("SESSION_TTL", "12h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL inválido: %w", err)
	}
	if cfg.ReconcileInterval, err = time.ParseDuration(getenv("RECONCILE_INTERVAL", "5m")); err != nil {
		return nil, fmt.Errorf("RECONCILE_INTERVAL inválido: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL é obrigatória")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET é obrigatório")
	}
	if cfg.MasterLogin != "" && cfg.MasterPassword == "" {
		return nil, fmt.Errorf("MASTER_PASSWORD é obrigatória quando MASTER_LOGIN está definido")
	}
	return cfg, nil
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != "" && c.MailOpsTo != ""
}

func (c *Config) WhatsAppEnabled() bool {
	return c.WhatsAppToken != "" && c.WhatsAppPhoneID != ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
