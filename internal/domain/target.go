package domain

import "fmt"

// ConnectionTarget — адрес и ключ доступа к инстансу Qdrant.
type ConnectionTarget struct {
	Host       string
	Port       int
	Credential string
	UseTLS     bool
}

func NewConnectionTarget(host string, port int, credential string, useTLS bool) *ConnectionTarget {
	return &ConnectionTarget{
		Host:       host,
		Port:       port,
		Credential: credential,
		UseTLS:     useTLS,
	}
}

// URL возвращает адрес вида https://{host}:{port}.
func (t *ConnectionTarget) URL() string {
	scheme := "https"
	if !t.UseTLS {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s:%d", scheme, t.Host, t.Port)
}

// RedactedCredential возвращает ключ, пригодный для вывода в диагностике.
func (t *ConnectionTarget) RedactedCredential() string {
	return RedactSecret(t.Credential)
}

// RedactSecret скрывает секрет. Для секретов длиннее 8 символов оставляет последние 4.
func RedactSecret(secret string) string {
	const (
		minRevealLen = 8
		revealTail   = 4
		mask         = "****"
	)

	if secret == "" {
		return "<empty>"
	}

	if len(secret) <= minRevealLen {
		return mask
	}

	return mask + secret[len(secret)-revealTail:]
}
