package wsrouter

import (
	"context"
	"errors"
)

var ErrUnknownMessageType = errors.New("unknown message type")

type ctxKey string

const messageTypeKey ctxKey = "message_type"

func GetMessageTypeFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(messageTypeKey).(string); ok {
		return v
	}
	return ""
}
