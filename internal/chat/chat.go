// Package chat backs the storefront's customer-service widget. Queries are
// forwarded to an OpenAI-compatible completion endpoint together with store
// context (contact details, catalog highlights); when no provider is
// configured the service degrades to a canned reply so the widget keeps
// working offline.
package chat

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/royal-fernet/storefront/internal/domain/product"
	"github.com/royal-fernet/storefront/internal/domain/settings"
)

// ErrEmptyQuery is returned when the user message is blank.
var ErrEmptyQuery = errors.New("query is required")

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Provider produces a completion for a conversation. Implementations talk
// to an external model endpoint.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ContextSource supplies the store data injected into the system prompt.
// Both lookups are best effort; a failing source just yields a thinner
// prompt.
type ContextSource struct {
	Settings settings.Repository
	Products product.Repository
}

// Service answers customer-service queries.
type Service struct {
	provider Provider
	source   ContextSource
	lg       *zap.Logger
}

// NewService creates a chat Service. provider may be nil; the service then
// always answers with the fallback reply.
func NewService(provider Provider, source ContextSource, lg *zap.Logger) *Service {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{provider: provider, source: source, lg: lg}
}

// Reply answers a single user query, optionally continuing the supplied
// conversation history (oldest first, fallback replies excluded).
func (s *Service) Reply(ctx context.Context, history []Message, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	if s.provider == nil {
		return s.fallback(ctx), nil
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: s.systemPrompt(ctx)})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: query})

	reply, err := s.provider.Complete(ctx, messages)
	if err != nil {
		s.lg.Warn("chat provider failed, using fallback", zap.Error(err))
		return s.fallback(ctx), nil
	}
	return reply, nil
}

// systemPrompt assembles the assistant instructions with whatever store
// context is available.
func (s *Service) systemPrompt(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("You are a friendly and helpful customer service assistant for Royal-Fernet, a luxury watch store.\n")
	b.WriteString("Your goal is to assist users with their questions about products, orders, and shipping. Be concise and professional.\n")

	if s.source.Settings != nil {
		if cfg, err := s.source.Settings.Get(ctx); err == nil {
			if cfg.Phone != "" {
				b.WriteString("Store phone: " + cfg.Phone + "\n")
			}
			if cfg.ContactEmail != "" {
				b.WriteString("Store contact email: " + cfg.ContactEmail + "\n")
			}
		}
	}

	if s.source.Products != nil {
		if products, err := s.source.Products.List(ctx, ""); err == nil && len(products) > 0 {
			b.WriteString("Current catalog highlights:\n")
			for i, p := range products {
				if i == 10 {
					break
				}
				line := "- " + p.Name + " (" + p.Category + "), " + p.Price.StringFixed(0)
				if p.Discount > 0 {
					line += ", currently discounted"
				}
				b.WriteString(line + "\n")
			}
		}
	}

	return b.String()
}

// fallback is the reply used when no provider is available. It points the
// customer at the store's human contact channels.
func (s *Service) fallback(ctx context.Context) string {
	reply := "Thanks for reaching out to Royal-Fernet. Our assistant is currently offline."
	if s.source.Settings != nil {
		if cfg, err := s.source.Settings.Get(ctx); err == nil {
			var channels []string
			if cfg.Phone != "" {
				channels = append(channels, "call us at "+cfg.Phone)
			}
			if cfg.ContactEmail != "" {
				channels = append(channels, "write to "+cfg.ContactEmail)
			}
			if len(channels) > 0 {
				reply += " Please " + strings.Join(channels, " or ") + "."
			}
		}
	}
	return reply
}
