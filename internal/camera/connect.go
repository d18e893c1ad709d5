package camera

import (
	"context"
	"errors"

	"scopecam/internal/logger"
)

// Prompter asks the user whether a failed connection should be retried.
// ConfirmRetry blocks until the user answers.
type Prompter interface {
	ConfirmRetry(err error) bool
}

// Connect opens the camera, asking the prompter after every ErrNotFound.
// Other errors are returned as is.
func Connect(ctx context.Context, open Opener, settings Settings, prompt Prompter, log logger.Logger) (Camera, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cam, err := open(settings)
		if err == nil {
			log.Info("Camera", "connected", map[string]interface{}{
				"device":  settings.Device,
				"attempt": attempt,
			})
			return cam, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		log.Warning("Camera", "camera not found", map[string]interface{}{
			"device":  settings.Device,
			"attempt": attempt,
			"error":   err.Error(),
		})
		if !prompt.ConfirmRetry(err) {
			return nil, ErrCancelled
		}
	}
}
