package materialize

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/imtaco/resonare-live/internal/errors"
	"github.com/imtaco/resonare-live/live"
)

// record is the strict shape of a notifications row change.
type record struct {
	ID          string    `mapstructure:"id" validate:"required"`
	UserID      string    `mapstructure:"user_id" validate:"required"`
	ActorID     string    `mapstructure:"actor_id" validate:"required"`
	Type        string    `mapstructure:"type" validate:"required,oneof=follow follow_request follow_request_accepted diary_like diary_comment"`
	ReferenceID *string   `mapstructure:"reference_id"`
	Read        bool      `mapstructure:"read"`
	CreatedAt   time.Time `mapstructure:"created_at"`
}

var validate = validator.New()

func decode(ev live.RawEvent) (*record, error) {
	if ev.Record == nil {
		return nil, errors.New(live.ErrInvalidEvent, "event has no record")
	}

	rec := &record{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:     rec,
	})
	if err != nil {
		return nil, errors.Wrap(live.ErrInvalidEvent, err, "build decoder")
	}
	if err := dec.Decode(ev.Record); err != nil {
		return nil, errors.Wrap(live.ErrInvalidEvent, err, "decode record")
	}
	if err := validate.Struct(rec); err != nil {
		return nil, errors.Wrap(live.ErrInvalidEvent, err, "validate record")
	}
	return rec, nil
}

// notification maps the raw row without any joined data.
func (r *record) notification() *live.Notification {
	n := &live.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      live.NotificationType(r.Type),
		ActorID:   r.ActorID,
		Read:      r.Read,
		CreatedAt: r.CreatedAt,
	}
	if r.ReferenceID != nil {
		n.ReferenceID = *r.ReferenceID
	}
	return n
}
