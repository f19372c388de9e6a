// Package redis provides connection management and health checks for the
// go-redis client.
//
// Connect retries the initial connection within a timeout window, which keeps
// service startup resilient when Redis comes up later than the application.
// The resulting client backs the Redis state store in pkg/state.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := state.NewRedisStore(client)
package redis
