package redisClient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AVVKavvk/calls-qa/models"
	"github.com/go-redis/redis"
)

func exchangesKey(callID string) string {
	return "exchanges:" + callID
}

// AppendExchange pushes an answered question onto the call's exchange list.
func AppendExchange(ctx context.Context, rc *redis.Client, exchange models.Exchange) error {
	return rc.WithContext(ctx).RPush(exchangesKey(exchange.CallID), &exchange).Err()
}

// GetAllExchanges returns the call's exchanges, oldest first.
func GetAllExchanges(ctx context.Context, rc *redis.Client, callID string) ([]models.Exchange, error) {
	result, err := rc.WithContext(ctx).LRange(exchangesKey(callID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	exchanges := make([]models.Exchange, 0, len(result))
	for _, v := range result {
		var exchange models.Exchange
		if err := json.Unmarshal([]byte(v), &exchange); err != nil {
			return nil, fmt.Errorf("decode exchange for %s: %w", callID, err)
		}
		exchanges = append(exchanges, exchange)
	}
	return exchanges, nil
}
