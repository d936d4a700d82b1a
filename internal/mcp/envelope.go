package mcp

// ResponseEnvelope is the structured output of every tool.
type ResponseEnvelope struct {
	Data     any               `json:"data"`
	Warnings []string          `json:"warnings,omitempty"`
	Visuals  map[string]string `json:"visuals,omitempty"`
	Guidance []string          `json:"_guidance,omitempty"`
}

// WrapResponse builds an envelope, leaving empty parts out of the JSON.
func WrapResponse(data any, warnings []string, visuals map[string]string, guidance []string) ResponseEnvelope {
	env := ResponseEnvelope{Data: data, Guidance: guidance}
	if len(warnings) > 0 {
		env.Warnings = warnings
	}
	if len(visuals) > 0 {
		env.Visuals = visuals
	}
	return env
}

// visuals keeps the non-empty charts, or returns nil when charts are disabled.
func (s *Server) visuals(charts map[string]string) map[string]string {
	if !s.cfg.EnableMermaidCharts {
		return nil
	}
	out := make(map[string]string, len(charts))
	for k, v := range charts {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
