package aigen

import (
	"context"

	"github.com/studynet/studynet/log"
)

type Config struct {
	APIKey  string `toml:"key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// Service is the generator used by the domain services. It runs in live mode
// when an API key is configured and falls back to deterministic content on
// any upstream failure. It never returns an error: generation failures are
// logged, not surfaced.
type Service struct {
	client *Client
	logger log.Logger
}

func NewService(conf Config, logger log.Logger) *Service {
	s := &Service{logger: logger}

	if conf.APIKey == "" {
		logger.Print("no generation API key configured, serving fallback content")
		return s
	}

	s.client = NewClient(conf.APIKey, conf.Model, conf.BaseURL)
	return s
}

func (s *Service) Summarize(ctx context.Context, highlights []Highlight, collectionTitle string) (string, error) {
	if s.client == nil {
		return FallbackSummary(highlights, collectionTitle), nil
	}

	content, err := s.client.Summarize(ctx, highlights, collectionTitle)
	if err != nil {
		s.logger.Errorf("summary generation failed, using fallback: %v", err)
		return FallbackSummary(highlights, collectionTitle), nil
	}
	return content, nil
}

func (s *Service) Quizify(ctx context.Context, summary string, numQuestions int) (Quiz, error) {
	if s.client == nil {
		return FallbackQuiz(numQuestions), nil
	}

	quiz, err := s.client.Quizify(ctx, summary, numQuestions)
	if err != nil {
		s.logger.Errorf("quiz generation failed, using fallback: %v", err)
		return FallbackQuiz(numQuestions), nil
	}
	return quiz, nil
}

func (s *Service) Status() Status {
	status := Status{
		Available:     s.client != nil,
		KeyConfigured: s.client != nil,
	}
	if s.client != nil {
		status.Model = s.client.Model()
	}
	return status
}

func (s *Service) TestConnection(ctx context.Context) bool {
	if s.client == nil {
		return false
	}
	return s.client.TestConnection(ctx)
}
