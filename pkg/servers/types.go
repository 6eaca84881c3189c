package servers

import (
	"github.com/qmdx00/lifecycle"
)

var (
	_ Server = (*httpServer)(nil)
	_ Server = (*baseServer)(nil)
	_ Server = (*cronServer)(nil)
)

// Server is anything with a blocking Run and a graceful Stop.
type Server interface {
	lifecycle.Server
}
