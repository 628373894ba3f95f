package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/battlewithbytes/skinstudio/internal/progress"
)

// jobContext records a running job's events in the history. It is the first
// sink of the job's reporter, so the stored state is current before any
// other consumer sees an event.
type jobContext struct {
	engine *Engine
	job    *Job
	log    zerolog.Logger
}

func (ctx *jobContext) append(level, msg string, args ...interface{}) {
	message := fmt.Sprintf(msg, args...)
	if err := ctx.engine.store.AppendLog(&LogEntry{
		JobID:     ctx.job.ID,
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}); err != nil {
		ctx.log.Warn().Err(err).Msg("appending job log")
	}
}

func (ctx *jobContext) info(msg string, args ...interface{}) {
	ctx.log.Info().Msgf(msg, args...)
	ctx.append("info", msg, args...)
}

func (ctx *jobContext) warn(msg string, args ...interface{}) {
	ctx.log.Warn().Msgf(msg, args...)
	ctx.append("warn", msg, args...)
}

func (ctx *jobContext) save() {
	ctx.job.UpdatedAt = time.Now()
	if err := ctx.engine.store.UpdateJob(ctx.job); err != nil {
		ctx.log.Warn().Err(err).Msg("updating job")
	}
}

func (ctx *jobContext) transition(state string) {
	ctx.job.State = state
	ctx.save()
	ctx.append("info", "State: %s", state)
}

func (ctx *jobContext) finish(state string) {
	now := time.Now()
	ctx.job.State = state
	ctx.job.CompletedAt = &now
	ctx.save()
}

// Emit implements progress.Sink.
func (ctx *jobContext) Emit(e progress.Event) {
	ctx.job.Progress = e.Fraction
	switch e.Kind {
	case progress.KindStatus:
		ctx.transition(e.Message)
	case progress.KindWarning:
		ctx.append("warn", "%s", e.Message)
	case progress.KindDone:
		ctx.finish(StateCompleted)
		ctx.info("%s", e.Message)
	case progress.KindFailed:
		ctx.finish(StateFailed)
		ctx.log.Error().Str("error", e.Message).Msg("generation failed")
		ctx.append("error", "%s", e.Message)
	}
}
