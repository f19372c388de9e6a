// Package mongo provides connection management and health checks for the
// official MongoDB driver.
//
// The billing system of record keeps subscription documents in MongoDB; this
// package produces the client that subscription.NewMongoSource reads from.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "billing")
//	if err != nil {
//	    return err
//	}
//
//	source := subscription.NewMongoSource(db)
package mongo
