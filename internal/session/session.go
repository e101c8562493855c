// Package session exposes the get/set/compute operations an interface layer
// drives. A Session owns one EstimationState; derived values are recomputed
// from it on every call.
package session

import (
	"github.com/bornholm/effortcalc/internal/document"
	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/stats"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is a single-user estimation session
type Session struct {
	id         string
	state      *model.EstimationState
	logger     *zap.Logger
	hasChanges bool
}

// New creates a session around state. A nil logger disables logging.
func New(state *model.EstimationState, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := generateID()
	return &Session{
		id:     id,
		state:  state,
		logger: logger.With(zap.String("session", id)),
	}
}

// ID returns the short identifier of the session
func (s *Session) ID() string {
	return s.id
}

// State returns the current state. Callers must mutate it through the session.
func (s *Session) State() *model.EstimationState {
	return s.state
}

// HasChanges reports whether the state changed since the last MarkSaved
func (s *Session) HasChanges() bool {
	return s.hasChanges
}

// MarkSaved clears the change flag
func (s *Session) MarkSaved() {
	s.hasChanges = false
}

// Record returns the record of a process input, defaulted if never set
func (s *Session) Record(process model.Process, input string) model.EstimateRecord {
	record, _ := s.state.Record(process, input)
	return record
}

// SetEstimate stores a record and returns it with its computed effort
func (s *Session) SetEstimate(process model.Process, input string, totalCount, sPercent, mPercent, lPercent int, comments string) (model.EstimateRecord, error) {
	record, err := s.state.SetEstimate(process, input, totalCount, sPercent, mPercent, lPercent, comments)
	if err != nil {
		s.logger.Warn("estimate rejected",
			zap.String("op", "session.SetEstimate"),
			zap.String("process", string(process)),
			zap.String("input", input),
			zap.Error(err),
		)
		return model.EstimateRecord{}, err
	}

	s.hasChanges = true
	s.logger.Debug("estimate updated",
		zap.String("op", "session.SetEstimate"),
		zap.String("process", string(process)),
		zap.String("input", input),
		zap.Float64("effort", record.Effort),
	)

	return record, nil
}

// SetComments changes the comments of a process input
func (s *Session) SetComments(process model.Process, input string, comments string) error {
	if err := s.state.SetComments(process, input, comments); err != nil {
		return err
	}
	s.hasChanges = true
	return nil
}

// SetMultiplier changes the hours of one size of an effort key and refreshes
// the stored efforts
func (s *Session) SetMultiplier(key model.EffortKey, size model.Size, hours float64) error {
	if err := s.state.SetMultiplier(key, size, hours); err != nil {
		s.logger.Warn("multiplier rejected",
			zap.String("op", "session.SetMultiplier"),
			zap.String("key", string(key)),
			zap.String("size", string(size)),
			zap.Float64("hours", hours),
			zap.Error(err),
		)
		return err
	}

	s.state.Recompute()
	s.hasChanges = true
	s.logger.Debug("multiplier updated",
		zap.String("op", "session.SetMultiplier"),
		zap.String("key", string(key)),
		zap.String("size", string(size)),
		zap.Float64("hours", hours),
	)

	return nil
}

// SelectProfile switches technology and project type, overlaying their default
// multipliers onto the current table
func (s *Session) SelectProfile(projectType model.ProjectType, technology model.Technology) error {
	if err := s.state.SelectProfile(projectType, technology); err != nil {
		s.logger.Warn("profile rejected",
			zap.String("op", "session.SelectProfile"),
			zap.String("projectType", string(projectType)),
			zap.String("technology", string(technology)),
			zap.Error(err),
		)
		return err
	}

	s.state.Recompute()
	s.hasChanges = true
	s.logger.Info("profile applied",
		zap.String("op", "session.SelectProfile"),
		zap.String("projectType", string(projectType)),
		zap.String("technology", string(technology)),
	)

	return nil
}

// SetPhase changes the percentage of a lifecycle phase. An imbalanced
// breakdown is accepted; it is reported by PhaseReport.
func (s *Session) SetPhase(phase model.Phase, percent int) error {
	if s.state.Breakdown == nil {
		s.state.Breakdown = model.DefaultPhaseBreakdown()
	}
	if err := s.state.Breakdown.Set(phase, percent); err != nil {
		return err
	}

	s.hasChanges = true
	if warning := s.state.Breakdown.Check(); warning != nil {
		s.logger.Warn("phase breakdown imbalanced",
			zap.String("op", "session.SetPhase"),
			zap.Int("sum", s.state.Breakdown.Sum()),
		)
	}

	return nil
}

// Summary recomputes the per-process and total estimates
func (s *Session) Summary() stats.Summary {
	return stats.Summarize(s.state)
}

// PhaseReport recomputes the summary and allocates it across phases
func (s *Session) PhaseReport() (stats.PhaseReport, error) {
	return stats.AllocatePhases(s.Summary(), s.state.Breakdown)
}

// Import merges a configuration document into the state. On error the state
// is left unchanged.
func (s *Session) Import(data []byte) error {
	state, err := document.Deserialize(data, s.state)
	if err != nil {
		s.logger.Warn("import rejected",
			zap.String("op", "session.Import"),
			zap.Error(err),
		)
		return err
	}

	state.Recompute()
	s.state = state
	s.hasChanges = true
	s.logger.Info("document imported",
		zap.String("op", "session.Import"),
		zap.String("technology", string(state.Technology)),
		zap.String("projectType", string(state.ProjectType)),
	)

	return nil
}

// Export encodes the state as a configuration document
func (s *Session) Export() ([]byte, error) {
	data, err := document.Serialize(s.state)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("document exported", zap.String("op", "session.Export"), zap.Int("bytes", len(data)))
	return data, nil
}

func generateID() string {
	return uuid.New().String()[:8]
}
