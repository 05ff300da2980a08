package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"github.com/publieople/termseq/pkg/logger"
	"github.com/spf13/afero"
)

// SEQUENCE_GLOBAL is the global a script may define instead of
// assigning module.exports.
const SEQUENCE_GLOBAL = "sequence"

// runJS evaluates a JavaScript script. The sequence is taken from
// module.exports, or from the global named SEQUENCE_GLOBAL when nothing
// was exported. Either may be a function, which is called with vars.
// require() resolves against the loader's filesystem.
func (l *Loader) runJS(ctx context.Context, name string, vars map[string]string) (*Script, error) {
	vm := goja.New()
	registry := require.NewRegistry(require.WithLoader(l.sourceLoader))
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(&printer{log: logger.WithPrefix(l.log, name)}))
	registry.Enable(vm)
	console.Enable(vm)

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	src, err := afero.ReadFile(l.fs, name)
	if err != nil {
		return nil, err
	}
	module := vm.NewObject()
	if err := module.Set("exports", vm.NewObject()); err != nil {
		return nil, err
	}
	if err := vm.Set("module", module); err != nil {
		return nil, err
	}
	if err := vm.Set("exports", module.Get("exports")); err != nil {
		return nil, err
	}
	// The script name doubles as the base for relative require() paths.
	if _, err := vm.RunScript(filepath.ToSlash(name), string(src)); err != nil {
		return nil, jsError(err)
	}
	v := module.Get("exports")
	if isEmpty(vm, v) {
		v = vm.Get(SEQUENCE_GLOBAL)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, ErrNoSequence
	}
	if fn, ok := goja.AssertFunction(v); ok {
		if vars == nil {
			vars = map[string]string{}
		}
		v, err = fn(goja.Undefined(), vm.ToValue(vars))
		if err != nil {
			return nil, jsError(err)
		}
	}
	if _, ok := v.Export().(map[string]interface{}); !ok {
		return nil, ErrInvalidSequence
	}
	// Route the exported value through JSON so the static decoding rules
	// apply to scripts too.
	data, err := json.Marshal(v.Export())
	if err != nil {
		return nil, err
	}
	return Decode(FormatJSON, data)
}

func (l *Loader) sourceLoader(p string) ([]byte, error) {
	name := filepath.FromSlash(p)
	fi, err := l.fs.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, require.ModuleFileDoesNotExistError
		}
		return nil, err
	}
	if fi.IsDir() {
		return nil, require.ModuleFileDoesNotExistError
	}
	return afero.ReadFile(l.fs, name)
}

// isEmpty reports whether v is undefined or an object with no own keys,
// the value of module.exports when a script only sets a global.
func isEmpty(vm *goja.Runtime, v goja.Value) bool {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return true
	}
	if _, ok := goja.AssertFunction(v); ok {
		return false
	}
	obj := v.ToObject(vm)
	return len(obj.Keys()) == 0
}

func jsError(err error) error {
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		return fmt.Errorf("%w: %v", ErrScriptInterrupted, ie.Value())
	}
	return err
}

// printer sends console output to the logger.
type printer struct {
	log logger.Logger
}

func (p *printer) Log(s string)   { p.log.Info("%s", s) }
func (p *printer) Warn(s string)  { p.log.Warning("%s", s) }
func (p *printer) Error(s string) { p.log.Error("%s", s) }
