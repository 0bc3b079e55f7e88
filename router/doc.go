// Package router provides the built-in routing strategies for pools: fixed
// round-robin cycling, an immediate stop, a model-backed routing agent, and
// an embedding-based semantic router.
//
// All strategies implement troupe.Router. A router only picks names; it
// never validates them against the pool's registry. The pool is the sole
// validation point, and an unknown name surfaces there as a fatal
// RoutingError.
//
// # Strategies
//
// RoundRobin cycles through a fixed list and never stops on its own; the
// pool's iteration bound ends the run:
//
//	pool.New(
//	    pool.WithAgents(researcher, writer),
//	    pool.WithRouter(router.NewRoundRobin("researcher", "writer")),
//	    pool.WithMaxIter(4),
//	)
//
// NewAgent builds a routing agent: one classification call per decision,
// answering with an agent name or the STOP sentinel. Unparseable answers
// stop the run rather than guess:
//
//	r := router.NewAgent("dispatcher", client, nil,
//	    router.WithPersona("Route math to the mathematician, prose to the writer."),
//	)
//
// NewSemantic embeds every candidate's description once up front, then
// picks the highest cosine-similarity candidate per decision with no
// generation call:
//
//	r, err := router.NewSemantic(ctx, "dispatcher", client, agents,
//	    router.WithMinScore(0.3),
//	)
//
// Routing agents and semantic routers built with a nil candidate list adopt
// the pool's registry at assembly time via SetAgents; an explicit list wins.
package router
