// Package pack serializes pool configurations to a JSON document and
// reconstructs live pools from one.
//
// A document carries everything that survives serialization: tool
// declarations with their execution policy, agent definitions, and the
// pool wiring (agent list, router descriptor, iteration bound). Handlers
// and providers cannot serialize, so Build takes them as bindings:
//
//	doc, err := pack.Unmarshal(data)
//	if err != nil {
//	    return err
//	}
//	p, err := pack.Build(ctx, doc,
//	    pack.WithHandler("search", searchHandler),
//	    pack.WithHandler("calculate", calcHandler),
//	    pack.WithProvider(client),
//	)
//
// Every tool in the document needs a WithHandler binding; a missing one
// fails the build rather than producing a pool with a tool that cannot
// run.
//
// The reverse direction captures a live pool:
//
//	doc := pack.FromPool(p)
//	data, err := pack.Marshal(doc)
//
// Marshal and Unmarshal round-trip: parsing a document and rendering it
// again produces a structurally equivalent document. Field order in the
// JSON is irrelevant; values are preserved exactly.
package pack
