package llm

import "context"

type contextKey string

const (
	purposeKey  contextKey = "llm_purpose"
	lessonIDKey contextKey = "llm_lesson_id"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithLessonID tags every request made under ctx with the lesson being built.
func WithLessonID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, lessonIDKey, id)
}

// LessonIDFrom returns the lesson tag, or "" if none is set.
func LessonIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(lessonIDKey).(string)
	return v
}
