// Package factory builds pluggable modules, such as metrics sinks, from
// configuration entries of the form {type, conf}. Each module type
// registers a constructor that decodes its conf map into a typed struct:
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	_ = reg.Register("log", func(conf map[string]any) (metrics.MetricsSink, error) {
//		var c struct{ Component string `json:"component"` }
//		if err := factory.Decode(conf, &c); err != nil {
//			return nil, err
//		}
//		return NewLogSink(c.Component), nil
//	})
package factory
