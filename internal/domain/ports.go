package domain

import "context"

// LevelSource provides the story. Implementations can be embedded,
// file-based, or anything else that yields an ordered level list.
type LevelSource interface {
	Load(ctx context.Context) ([]Level, error)
}

// Speaker announces text. Speak returns once the text has been spoken or
// the announcement was cancelled. Cancel requests termination of any
// in-flight Speak; callers then wait for that Speak to return.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Cancel()
}

// Buzzer plays the failure indicator after a wrong phrase. Buzz returns
// when the indicator has finished or ctx is cancelled.
type Buzzer interface {
	Buzz(ctx context.Context) error
}

// Renderer presents a scene. It must not block on the learner.
type Renderer interface {
	Render(scene Scene)
}
