package ports

// Metrics receives service-level observations. Implementations must be safe
// for concurrent use.
type Metrics interface {
	StoreOperation(collection, op, result string)
	AccessDenied(collection, action, kind string)
	FieldsRedacted(collection, action string, n int)
	SessionOpened()
	SessionClosed()
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) StoreOperation(string, string, string) {}
func (NopMetrics) AccessDenied(string, string, string)   {}
func (NopMetrics) FieldsRedacted(string, string, int)    {}
func (NopMetrics) SessionOpened()                        {}
func (NopMetrics) SessionClosed()                        {}
