package tool

// Builtins returns the builtin tool set with default configuration: HTTP
// requests, web search, and the calculator. Nothing registers these
// implicitly; hand them to a Registry or a pool yourself:
//
//	reg := tool.NewRegistry().Add(tool.Builtins()...)
//
// To configure a builtin, construct it directly instead:
//
//	reg.Add(tool.HTTP(tool.WithAllowedHosts("api.example.com")))
func Builtins() []*Tool {
	return []*Tool{
		HTTP(),
		WebSearch(),
		Calculator(),
	}
}
