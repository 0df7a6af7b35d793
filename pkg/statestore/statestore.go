// Package statestore periodically snapshots per-device simulation
// statistics to Redis, one hash per device under a "table|key" name,
// mirroring the table-keyed convention the rest of the stack uses for
// state storage.
package statestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// AgentStateTable is the hash-name prefix every device snapshot is
// stored under: the Redis key for device "r1" is "AGENT_STATE|r1".
const AgentStateTable = "AGENT_STATE"

// Store snapshots agent statistics to a Redis database.
type Store struct {
	client *redis.Client
}

// NewStore opens a client against addr/db. The connection is lazy;
// Redis is only contacted on the first Snapshot/Read/Delete call.
func NewStore(addr string, db int) *Store {
	return &Store{client: redis.NewClient(&redis.Options{Addr: addr, DB: db})}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func redisKey(deviceID string) string {
	return AgentStateTable + "|" + deviceID
}

// SnapshotAgent writes stats as a hash at the device's key, overwriting
// any previously stored fields with the same names. Non-string values
// are JSON-encoded so the full statistics shape survives round-trip.
func (s *Store) SnapshotAgent(ctx context.Context, deviceID string, stats map[string]interface{}) error {
	if len(stats) == 0 {
		return nil
	}
	fields, err := flatten(stats)
	if err != nil {
		return fmt.Errorf("flattening statistics for %s: %w", deviceID, err)
	}
	if err := s.client.HSet(ctx, redisKey(deviceID), fields).Err(); err != nil {
		return fmt.Errorf("snapshotting %s: %w", deviceID, err)
	}
	return nil
}

// ReadAgent returns the stored field set for a device, empty if none
// has been snapshotted yet.
func (s *Store) ReadAgent(ctx context.Context, deviceID string) (map[string]string, error) {
	vals, err := s.client.HGetAll(ctx, redisKey(deviceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", deviceID, err)
	}
	return vals, nil
}

// DeleteAgent removes a device's stored snapshot entirely.
func (s *Store) DeleteAgent(ctx context.Context, deviceID string) error {
	if err := s.client.Del(ctx, redisKey(deviceID)).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", deviceID, err)
	}
	return nil
}

// flatten turns the nested map GetSimulationStatistics produces into a
// flat field set a Redis hash can store: strings pass through, every
// other value is JSON-encoded.
func flatten(stats map[string]interface{}) (map[string]interface{}, error) {
	fields := make(map[string]interface{}, len(stats))
	for k, v := range stats {
		switch val := v.(type) {
		case string:
			fields[k] = val
		default:
			enc, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = string(enc)
		}
	}
	return fields, nil
}
