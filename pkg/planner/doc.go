// Package planner ties dataset loading, network building and route search
// together behind a cache. The CLI and the API server both plan through a
// [Runner] so they share defaults, cache keys and logging.
//
// # Usage
//
//	runner := planner.NewRunner(cache, nil, logger)
//	net, err := runner.Load(ctx, dataset.FileSource{Path: "delhi.json"})
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Plan(ctx, net, planner.Options{From: "RJCK", To: "KSHG"})
//	for _, r := range res.Routes {
//	    fmt.Println(r.Interchanges, r.TotalStations)
//	}
//
// # Caching
//
// Built networks are kept in memory by dataset hash, so reloading an
// unchanged dataset does not rebuild its graph. Ranked route lists are
// stored in the [cache.Cache] under a key made of the network hash, the
// station pair and the search bounds. Results cut short by a timeout are
// never cached.
package planner
