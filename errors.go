package weft

import (
	"errors"

	"github.com/dshills/weft/internal/component"
	"github.com/dshills/weft/internal/model"
	"github.com/dshills/weft/internal/template"
)

// Facade sentinel errors, plus the internal sentinels callers match with
// errors.Is.
var (
	// ErrNilRender indicates a node or component template returned nil.
	ErrNilRender = errors.New("weft: template rendered nil")

	// ErrNoStore indicates a store-backed operation ran on a renderer
	// constructed without WithStore.
	ErrNoStore = errors.New("weft: no document store attached")

	// ErrUnknownComponent indicates a component mount named an unregistered
	// semantic type. Missing component templates are fatal.
	ErrUnknownComponent = template.ErrUnknownComponent

	// ErrReentrantSetState indicates setState was called from inside the
	// component's own render pass.
	ErrReentrantSetState = component.ErrReentrantSetState

	// ErrNodeNotFound indicates a sid does not name a known document node.
	ErrNodeNotFound = model.ErrNodeNotFound
)
