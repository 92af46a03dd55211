package suggestcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/gotouchgrass/api/internal/domain/verification"
)

// ValkeyStore caches activity suggestions in a Valkey-compatible database
// so repeated asks for the same city skip the model call.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "suggest"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, city string) ([]string, bool, error) {
	if city == "" {
		return nil, false, nil
	}
	cmd := s.client.B().Get().Key(s.cityKey(city)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var activities []string
	if err := json.Unmarshal([]byte(payload), &activities); err != nil {
		return nil, false, err
	}
	return activities, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, city string, activities []string, ttl time.Duration) error {
	if city == "" || len(activities) == 0 {
		return nil
	}
	payload, err := json.Marshal(activities)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.cityKey(city)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) cityKey(city string) string {
	return s.prefix + ":city:" + city
}

var _ verification.SuggestionStore = (*ValkeyStore)(nil)
