package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"scrutiny/internal/auditor"
	"scrutiny/internal/config"
	"scrutiny/internal/history"
	"scrutiny/internal/logging"
	"scrutiny/internal/notifications"
	"scrutiny/internal/policy"
	"scrutiny/internal/report"
	"scrutiny/internal/services"
	"scrutiny/internal/transcript"
)

// Source types recognized by extension.
const (
	SourceAudio = "audio"
	SourceChat  = "chat"
)

// AudioProcessor produces utterances from an audio file.
type AudioProcessor interface {
	Process(ctx context.Context, path string) ([]transcript.Utterance, error)
}

// Retriever returns policy snippets relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]policy.Snippet, error)
}

// Auditor produces a verdict for a transcript and its policy context.
type Auditor interface {
	Audit(ctx context.Context, transcriptText string, policyContext []string) (auditor.Result, error)
}

// Store persists audit outcomes.
type Store interface {
	Add(ctx context.Context, entry history.Entry) (*history.Entry, error)
}

// Outcome is the result of a completed audit run.
type Outcome struct {
	RunID         string
	SourceFile    string
	SourceType    string
	Utterances    []transcript.Utterance
	Transcript    string
	PolicyContext []string
	Result        auditor.Result
	Status        string
	ReportPath    string
	HistoryID     int64
}

// Pipeline wires the audit stages together.
type Pipeline struct {
	cfg      *config.Config
	audio    AudioProcessor
	policy   Retriever
	auditor  Auditor
	store    Store
	notifier notifications.Service
	logger   *slog.Logger
}

// New builds a Pipeline. store and notifier may be nil, disabling history
// persistence and alerting respectively.
func New(cfg *config.Config, audio AudioProcessor, retriever Retriever, aud Auditor, store Store, notifier notifications.Service, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(&config.Config{})
	}
	return &Pipeline{
		cfg:      cfg,
		audio:    audio,
		policy:   retriever,
		auditor:  aud,
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// ClassifySource maps a file extension to a source type. Unrecognized
// extensions are bad input.
func ClassifySource(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".wav":
		return SourceAudio, nil
	case ".txt", ".json":
		return SourceChat, nil
	default:
		return "", services.Wrap(services.ErrBadInput, "intake", "classify", fmt.Sprintf("unsupported file type: %s", filepath.Ext(path)), nil)
	}
}

// Run audits the artifact at path end to end.
func (p *Pipeline) Run(ctx context.Context, path string) (*Outcome, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithArtifact(ctx, path)
	logger := logging.WithContext(ctx, p.logger)

	outcome, err := p.run(ctx, logger, runID, path)
	if err != nil {
		logger.Error("audit run failed",
			logging.String("failure_kind", services.FailureKind(err)),
			logging.Error(err))
		if alertErr := p.notifier.NotifyAuditFailed(ctx, filepath.Base(path), err); alertErr != nil {
			logger.Warn("failure alert not delivered", logging.Error(alertErr))
		}
		return nil, err
	}
	return outcome, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, runID, path string) (*Outcome, error) {
	sourceType, err := ClassifySource(path)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, services.Wrap(services.ErrBadInput, "intake", "stat", fmt.Sprintf("file not found: %s", path), statErr)
	}

	logger.Info("audit run started", logging.String("source_type", sourceType))

	utterances, err := p.buildTranscript(services.WithStage(ctx, "transcript"), sourceType, path)
	if err != nil {
		return nil, err
	}
	if len(utterances) == 0 {
		return nil, services.Wrap(services.ErrEmptyResult, "transcript", "normalize", "no utterances produced", nil)
	}

	rendered := transcript.Render(utterances)
	query := transcript.Prefix(rendered, p.cfg.Policy.QueryPrefixChars)

	snippets, err := p.policy.Retrieve(services.WithStage(ctx, "retrieve"), query, p.cfg.Policy.TopK)
	if err != nil {
		return nil, err
	}
	policyContext := make([]string, len(snippets))
	for i, s := range snippets {
		policyContext[i] = s.Text
	}
	logger.Info("policy context retrieved", logging.Int("snippets", len(policyContext)))

	result, err := p.auditor.Audit(services.WithStage(ctx, "audit"), rendered, policyContext)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "audit", "llm", "audit call failed", err)
	}

	outcome := &Outcome{
		RunID:         runID,
		SourceFile:    path,
		SourceType:    sourceType,
		Utterances:    utterances,
		Transcript:    rendered,
		PolicyContext: policyContext,
		Result:        result,
		Status:        p.status(result),
	}

	p.finish(ctx, logger, outcome)
	return outcome, nil
}

func (p *Pipeline) buildTranscript(ctx context.Context, sourceType, path string) ([]transcript.Utterance, error) {
	switch sourceType {
	case SourceAudio:
		return p.audio.Process(ctx, path)
	case SourceChat:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, services.Wrap(services.ErrBadInput, "transcript", "read", "chat log unreadable", err)
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			var utterances []transcript.Utterance
			if jsonErr := json.Unmarshal(data, &utterances); jsonErr == nil {
				return utterances, nil
			}
		}
		return transcript.Normalize(string(data)), nil
	default:
		return nil, services.Wrap(services.ErrBadInput, "transcript", "classify", "unknown source type", nil)
	}
}

func (p *Pipeline) status(result auditor.Result) string {
	if result.Flagged(p.cfg.Alerts.FlagScore) || len(result.Violations) > 0 {
		return history.StatusFlagged
	}
	return history.StatusCompliant
}

// finish persists, reports, and alerts. These steps never fail the run; the
// verdict already exists and is returned to the caller regardless.
func (p *Pipeline) finish(ctx context.Context, logger *slog.Logger, outcome *Outcome) {
	now := time.Now().UTC()

	if reportPath, err := report.Write(p.cfg.Paths.ReportsDir, report.Input{
		SourceFile: outcome.SourceFile,
		SourceType: outcome.SourceType,
		RunID:      outcome.RunID,
		Result:     outcome.Result,
		CreatedAt:  now,
	}); err != nil {
		logger.Warn("report not written", logging.Error(err))
	} else {
		outcome.ReportPath = reportPath
	}

	if p.store != nil {
		entry, err := p.store.Add(ctx, history.Entry{
			RunID:      outcome.RunID,
			SourceFile: filepath.Base(outcome.SourceFile),
			SourceType: outcome.SourceType,
			Status:     outcome.Status,
			Score:      outcome.Result.Score,
			Summary:    outcome.Result.Summary,
			Violations: outcome.Result.Violations,
			Breakdown:  outcome.Result.Breakdown,
			ReportPath: outcome.ReportPath,
			CreatedAt:  now,
		})
		if err != nil {
			logger.Warn("history not recorded", logging.Error(err))
		} else {
			outcome.HistoryID = entry.ID
		}
	}

	p.alert(ctx, logger, outcome)

	logger.Info("audit run finished",
		logging.String("status", outcome.Status),
		logging.Any("score", scoreValue(outcome.Result.Score)),
		logging.Int("violations", len(outcome.Result.Violations)))
}

func (p *Pipeline) alert(ctx context.Context, logger *slog.Logger, outcome *Outcome) {
	base := filepath.Base(outcome.SourceFile)
	score := outcome.Result.Score
	if score != nil && *score < p.cfg.Alerts.CriticalScore {
		if err := p.notifier.NotifyCriticalScore(ctx, base, *score, outcome.Result.Summary); err != nil {
			logger.Warn("critical alert not delivered", logging.Error(err))
		}
		return
	}
	if outcome.Status == history.StatusFlagged {
		if err := p.notifier.NotifyFlagged(ctx, base, score, len(outcome.Result.Violations)); err != nil {
			logger.Warn("flag alert not delivered", logging.Error(err))
		}
	}
}

func scoreValue(score *float64) any {
	if score == nil {
		return "none"
	}
	return *score
}
