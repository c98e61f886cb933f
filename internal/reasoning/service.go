package reasoning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"platter/internal/logging"
	"platter/internal/services"
)

const (
	// maxDialogueChars caps the dialogue text sent per request to stay
	// within the model's context budget.
	maxDialogueChars = 24000

	componentName = "reasoning"
)

// MatchResult is the structured outcome of one semantic-matching call. An
// empty ExternalID means the model declined to pick a candidate.
type MatchResult struct {
	ExternalID string `json:"external_id"`
	Kind       string `json:"kind"`
	Season     int    `json:"season"`
	Episode    int    `json:"episode"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// Service is the reasoning surface the pipeline consumes.
type Service interface {
	ExtractCharacters(ctx context.Context, dialogue []string) ([]string, error)
	Summarize(ctx context.Context, dialogue []string, kind string) (string, error)
	Match(ctx context.Context, req MatchRequest) (MatchResult, error)
	HealthCheck(ctx context.Context) error
}

type service struct {
	client *Client
	logger *slog.Logger
}

// NewService builds the Service implementation backed by the HTTP client.
func NewService(client *Client, logger *slog.Logger) Service {
	return &service{
		client: client,
		logger: logging.NewComponentLogger(logger, componentName),
	}
}

// ExtractCharacters returns the character names the model finds in the
// dialogue. A response without a decodable payload yields an empty list, not
// an error: the caller falls back to its local proper-noun counts.
func (s *service) ExtractCharacters(ctx context.Context, dialogue []string) ([]string, error) {
	text := buildDialoguePrompt(dialogue, maxDialogueChars)
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, componentName, "extract characters", "empty dialogue", nil)
	}

	raw, err := s.client.CompleteJSON(ctx, CharacterExtractionPrompt, text, 0)
	if err != nil {
		return nil, wrapTransient("extract characters", err)
	}

	var parsed struct {
		Characters []string `json:"characters"`
	}
	if decodeErr := Decode(raw, &parsed); decodeErr != nil {
		// Some models return the bare array despite the instructions.
		var names []string
		if arrayErr := Decode(raw, &names); arrayErr == nil {
			parsed.Characters = names
		} else {
			s.logger.Warn("character extraction response not decodable",
				logging.String(logging.FieldEventType, "reasoning_parse_failure"),
				logging.Error(decodeErr))
			return nil, nil
		}
	}

	seen := make(map[string]struct{}, len(parsed.Characters))
	names := make([]string, 0, len(parsed.Characters))
	for _, name := range parsed.Characters {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// Summarize produces a plot synopsis for one unit of content.
func (s *service) Summarize(ctx context.Context, dialogue []string, kind string) (string, error) {
	text := buildDialoguePrompt(dialogue, maxDialogueChars)
	if strings.TrimSpace(text) == "" {
		return "", services.Wrap(services.ErrValidation, componentName, "summarize", "empty dialogue", nil)
	}

	prompt := text
	if kind = strings.TrimSpace(kind); kind != "" {
		prompt = fmt.Sprintf("Content kind hint: %s\n\n%s", kind, text)
	}
	synopsis, err := s.client.Complete(ctx, SummarizationPrompt, prompt, 0)
	if err != nil {
		return "", wrapTransient("summarize", err)
	}
	return strings.TrimSpace(synopsis), nil
}

// Match ranks the candidate shortlist against the synopsis. An unparsable
// response degrades to an unknown/low-confidence result rather than an error;
// only transport failures surface as errors.
func (s *service) Match(ctx context.Context, req MatchRequest) (MatchResult, error) {
	if strings.TrimSpace(req.Summary) == "" {
		return MatchResult{}, services.Wrap(services.ErrValidation, componentName, "match", "empty summary", nil)
	}
	if len(req.Candidates) == 0 {
		return MatchResult{}, services.Wrap(services.ErrValidation, componentName, "match", "empty candidate list", nil)
	}

	raw, err := s.client.CompleteJSON(ctx, MatchPrompt, buildMatchPrompt(req), 0)
	if err != nil {
		return MatchResult{}, wrapTransient("match", err)
	}

	var result MatchResult
	if decodeErr := Decode(raw, &result); decodeErr != nil {
		s.logger.Warn("match response not decodable, synthesizing unknown result",
			logging.String(logging.FieldEventType, "reasoning_parse_failure"),
			logging.Error(decodeErr))
		return MatchResult{Kind: "unknown", Confidence: "low", Reasoning: "response contained no structured payload"}, nil
	}
	return normalizeMatchResult(result, req.Candidates), nil
}

func (s *service) HealthCheck(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}

// normalizeMatchResult clamps model output to the values the resolver
// understands and drops external ids that were not in the shortlist.
func normalizeMatchResult(result MatchResult, candidates []CandidateSummary) MatchResult {
	result.ExternalID = strings.TrimSpace(result.ExternalID)
	result.Kind = strings.ToLower(strings.TrimSpace(result.Kind))
	switch result.Kind {
	case "movie", "episode", "special":
	default:
		result.Kind = "unknown"
	}
	result.Confidence = strings.ToLower(strings.TrimSpace(result.Confidence))
	switch result.Confidence {
	case "high", "medium", "low":
	default:
		result.Confidence = "low"
	}
	result.Reasoning = strings.TrimSpace(result.Reasoning)
	if result.Season < 0 {
		result.Season = 0
	}
	if result.Episode < 0 {
		result.Episode = 0
	}

	if result.ExternalID != "" {
		known := false
		for _, candidate := range candidates {
			if candidate.ExternalID == result.ExternalID {
				known = true
				break
			}
		}
		if !known {
			result.ExternalID = ""
			result.Confidence = "low"
			if result.Reasoning != "" {
				result.Reasoning += "; "
			}
			result.Reasoning += "model answered with an id outside the shortlist"
		}
	}
	return result
}

func wrapTransient(operation string, err error) error {
	marker := services.ErrTransient
	if errors.Is(err, context.DeadlineExceeded) {
		marker = services.ErrTimeout
	}
	return services.Wrap(marker, componentName, operation, "", err)
}
