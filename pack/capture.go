package pack

import (
	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/agent"
	"github.com/troupe-dev/troupe/pool"
	"github.com/troupe-dev/troupe/router"
	"github.com/troupe-dev/troupe/tool"
)

// FromPool captures a live pool's configuration back into a document.
// Agents that are not agent.Agent values contribute name and description
// only. Function routers have no serialized form and leave the router
// descriptor empty, so a rebuilt pool stops on its first decision until
// given a router again.
func FromPool(p *pool.Pool) *Document {
	doc := &Document{}
	seen := make(map[string]bool)

	for _, a := range p.Agents() {
		def := AgentDef{Name: a.Name(), Description: a.Description()}
		if aa, ok := a.(*agent.Agent); ok {
			def.Persona = aa.Persona()
			def.Model = aa.Model()
			for _, name := range aa.Registry().Names() {
				def.Tools = append(def.Tools, name)
				if seen[name] {
					continue
				}
				seen[name] = true
				if t, ok := aa.Registry().Get(name); ok {
					doc.Tools = append(doc.Tools, toolDef(t))
				}
			}
		}
		doc.Agents = append(doc.Agents, def)
		doc.Pool.Agents = append(doc.Pool.Agents, a.Name())
	}

	doc.Pool.Router = routerDef(p.Router())
	maxIter := p.MaxIter()
	doc.Pool.MaxIter = &maxIter
	return doc
}

// toolDef captures a tool's declaration and full execution policy, so a
// rebuilt tool does not depend on the defaults in force when it was
// captured.
func toolDef(t *tool.Tool) ToolDef {
	timeout := t.Timeout.Seconds()
	retries := t.MaxRetries
	delay := t.RetryDelay.Seconds()
	backoff := t.RetryBackoff
	return ToolDef{
		Name:              t.Name,
		Description:       t.Description,
		Parameters:        t.Parameters,
		TimeoutSeconds:    &timeout,
		MaxRetries:        &retries,
		RetryDelaySeconds: &delay,
		RetryBackoff:      &backoff,
		OnError:           string(t.OnError),
	}
}

func routerDef(r troupe.Router) *RouterDef {
	switch rt := r.(type) {
	case *router.RoundRobin:
		return &RouterDef{Type: RouterRoundRobin, Agents: rt.Names()}
	case *router.Agent:
		return &RouterDef{Type: RouterAgent, Agents: rt.Candidates(), Model: rt.Model()}
	case *router.Semantic:
		return &RouterDef{
			Type:     RouterSemantic,
			Agents:   rt.Candidates(),
			Model:    rt.Model(),
			MinScore: rt.MinScore(),
		}
	default:
		return nil
	}
}
