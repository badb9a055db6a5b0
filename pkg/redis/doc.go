// Package redis connects to a Redis server with retries and exposes a health
// check for readiness probes.
//
// Configuration is read from the environment through Config:
//
//	cfg, err := config.Load[redis.Config]()
//	if err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	checks := map[string]httpserver.Check{"redis": redis.Healthcheck(client)}
package redis
