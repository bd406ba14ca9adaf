package persistence

import "github.com/muhammadchandra19/relayer/pkg/redis"

// queueKeys names the three Redis keys backing one reliable queue: a hash of
// staged payloads, the FIFO list of hash fields and the list of fields a
// worker has popped but not yet acknowledged.
type queueKeys struct {
	cache      string
	queue      string
	processing string
}

func orderKeys(cfg *redis.Config, pair string) queueKeys {
	return queueKeys{
		cache:      cfg.Key("orderCache", pair),
		queue:      cfg.Key("orderQueue", pair),
		processing: cfg.Key("orderProcessing", pair),
	}
}

func matchKeys(cfg *redis.Config, pair string) queueKeys {
	return queueKeys{
		cache:      cfg.Key("matchCache", pair),
		queue:      cfg.Key("matchQueue", pair),
		processing: cfg.Key("matchProcessing", pair),
	}
}

// OrderUpdateChannel is the pub/sub channel carrying pair's OrderUpdates.
func OrderUpdateChannel(cfg *redis.Config, pair string) string {
	return cfg.Key("orderUpdate", pair)
}
