package level

import (
	"github.com/kumoworks/kumo/internal/core"
	"github.com/kumoworks/kumo/internal/event"
)

func lvStart() core.Point {
	return core.Point{X: 100, Y: -300}
}

func eventCounter(n *int) event.Callable {
	return event.Func(func(args ...any) (any, error) {
		*n++
		return nil, nil
	})
}
