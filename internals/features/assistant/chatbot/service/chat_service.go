package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/assistant/chatbot/dto"
	"edudbt_backend/internals/features/assistant/chatbot/llm"
	"edudbt_backend/internals/features/assistant/chatbot/model"
	"edudbt_backend/internals/features/assistant/chatbot/repository"
)

const (
	SourceCanned   = "canned"
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

var errSessionNotFound = fiber.NewError(fiber.StatusNotFound, "Chat session not found")

type Config struct {
	Retention    time.Duration
	ContextTurns int
}

type ChatService struct {
	repo repository.ChatRepository
	llm  llm.Client
	cfg  Config
	now  func() time.Time
}

func NewChatService(repo repository.ChatRepository, client llm.Client, cfg Config) *ChatService {
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if cfg.ContextTurns <= 0 {
		cfg.ContextTurns = 10
	}
	return &ChatService{repo: repo, llm: client, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// visible: sessions with an owner are private to that owner; anonymous ones
// are reachable by whoever holds the id.
func visible(m *model.ChatHistoryModel, p authz.Principal) bool {
	if m.ChatUserID == nil {
		return true
	}
	return p.Authenticated() && *m.ChatUserID == p.UserID
}

// session loads a live session or starts a new one. Unknown or expired ids
// get a fresh server-generated id.
func (s *ChatService) session(ctx context.Context, p authz.Principal, sessionID, lang string, now time.Time) (*model.ChatHistoryModel, bool, error) {
	if sessionID != "" {
		m, err := s.repo.FindLive(ctx, sessionID, now)
		switch {
		case err == nil:
			if !visible(m, p) {
				return nil, false, errSessionNotFound
			}
			if m.ChatUserID == nil && p.Authenticated() {
				uid := p.UserID
				m.ChatUserID = &uid
			}
			if lang != "" {
				m.ChatLanguage = lang
			}
			return m, false, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, false, err
		}
	}

	if lang == "" {
		lang = LangEnglish
	}
	m := &model.ChatHistoryModel{
		ChatSessionID: uuid.NewString(),
		ChatLanguage:  lang,
	}
	if p.Authenticated() {
		uid := p.UserID
		m.ChatUserID = &uid
	}
	return m, true, nil
}

func (s *ChatService) answer(ctx context.Context, m *model.ChatHistoryModel, msg string) (string, string) {
	if kind := matchCanned(msg); kind != cannedNone {
		return cannedReply(kind, m.ChatLanguage), SourceCanned
	}

	var prior []model.ChatMessage
	if n := s.cfg.ContextTurns - 1; n > 0 {
		prior = m.LastTurns(n)
	}
	history := make([]llm.Turn, 0, len(prior)+1)
	for _, t := range prior {
		role := llm.RoleUser
		if t.Role == model.ChatRoleAssistant {
			role = llm.RoleModel
		}
		history = append(history, llm.Turn{Role: role, Content: t.Content})
	}
	history = append(history, llm.Turn{Role: llm.RoleUser, Content: msg})

	reply, err := s.llm.Generate(ctx, SystemPrompt, history)
	if err != nil {
		log.Printf("[CHATBOT] session=%s llm failed: %v", m.ChatSessionID, err)
		return fallbackReply(m.ChatLanguage), SourceFallback
	}
	return reply, SourceLLM
}

func (s *ChatService) Message(ctx context.Context, p authz.Principal, req dto.MessageRequest) (*dto.MessageResponse, error) {
	if !authz.Can(p, authz.ChatUse) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Chat is not available for this account")
	}
	now := s.now()
	m, created, err := s.session(ctx, p, req.SessionID, req.Language, now)
	if err != nil {
		return nil, err
	}

	reply, source := s.answer(ctx, m, req.Message)
	done := s.now()
	m.Touch(done, s.cfg.Retention,
		model.ChatMessage{Role: model.ChatRoleUser, Content: req.Message, Timestamp: now},
		model.ChatMessage{Role: model.ChatRoleAssistant, Content: reply, Timestamp: done},
	)

	if created {
		err = s.repo.Create(ctx, m)
	} else {
		err = s.repo.Save(ctx, m)
	}
	if err != nil {
		return nil, err
	}

	return &dto.MessageResponse{
		SessionID: m.ChatSessionID,
		Reply:     reply,
		Source:    source,
		Language:  m.ChatLanguage,
		Timestamp: done,
	}, nil
}

func (s *ChatService) History(ctx context.Context, p authz.Principal, sessionID string) (*model.ChatHistoryModel, error) {
	m, err := s.repo.FindLive(ctx, sessionID, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if !visible(m, p) {
		return nil, errSessionNotFound
	}
	return m, nil
}

func (s *ChatService) Sessions(ctx context.Context, userID uuid.UUID) ([]model.ChatHistoryModel, error) {
	return s.repo.ListByUser(ctx, userID, s.now())
}

func (s *ChatService) DeleteSession(ctx context.Context, userID uuid.UUID, sessionID string) error {
	ok, err := s.repo.Delete(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return errSessionNotFound
	}
	return nil
}
