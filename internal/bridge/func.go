// ABOUTME: Function-shape dispatch: inspects a wrapped function once and stores how to call it
// ABOUTME: Runs every call on a worker goroutine, drains iterators and channels into one string

package bridge

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Shape is the calling strategy chosen for a wrapped function.
type Shape int

const (
	// ShapeValue returns its results directly, optionally with a trailing error.
	ShapeValue Shape = iota
	// ShapeSeq returns an iter.Seq whose elements are concatenated.
	ShapeSeq
	// ShapeSeq2 returns an iter.Seq2[T, error]; the first non-nil error aborts.
	ShapeSeq2
	// ShapeChan returns a receive channel drained until closed.
	ShapeChan
)

func (s Shape) String() string {
	switch s {
	case ShapeValue:
		return "value"
	case ShapeSeq:
		return "seq"
	case ShapeSeq2:
		return "seq2"
	case ShapeChan:
		return "chan"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// Func is a wrapped function whose shape was determined once by Inspect.
type Func struct {
	fn       reflect.Value
	name     string
	shape    Shape
	takesCtx bool
	params   []reflect.Type // declared parameters after the context
	variadic bool
	results  int  // non-error return values
	errLast  bool // last return value is an error
}

// Inspect validates fn and records its calling strategy. A leading
// context.Context parameter receives the request context.
func Inspect(fn any) (*Func, error) {
	if f, ok := fn.(*Func); ok && f != nil {
		return f, nil
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", ErrUnsupportedFunc)
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %T is not a function", ErrUnsupportedFunc, fn)
	}
	if v.IsNil() {
		return nil, fmt.Errorf("%w: nil function", ErrUnsupportedFunc)
	}

	f := &Func{fn: v, name: funcName(v), variadic: t.IsVariadic()}

	start := 0
	if t.NumIn() > 0 && t.In(0) == contextType {
		f.takesCtx = true
		start = 1
	}
	for i := start; i < t.NumIn(); i++ {
		f.params = append(f.params, t.In(i))
	}

	n := t.NumOut()
	if n > 0 && t.Out(n-1) == errorType {
		f.errLast = true
		n--
	}
	f.results = n

	if n == 1 {
		shape, err := shapeOf(t.Out(0))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFunc, f.name, err)
		}
		f.shape = shape
	}
	return f, nil
}

func shapeOf(rt reflect.Type) (Shape, error) {
	switch rt.Kind() {
	case reflect.Chan:
		if rt.ChanDir()&reflect.RecvDir == 0 {
			return ShapeValue, errors.New("send-only channel result")
		}
		return ShapeChan, nil
	case reflect.Func:
		if rt.NumIn() != 1 || rt.NumOut() != 0 {
			return ShapeValue, errors.New("function result is not an iterator")
		}
		yield := rt.In(0)
		if yield.Kind() != reflect.Func || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
			return ShapeValue, errors.New("function result is not an iterator")
		}
		switch yield.NumIn() {
		case 1:
			return ShapeSeq, nil
		case 2:
			if yield.In(1) != errorType {
				return ShapeValue, errors.New("iter.Seq2 must yield (value, error)")
			}
			return ShapeSeq2, nil
		}
		return ShapeValue, errors.New("function result is not an iterator")
	}
	return ShapeValue, nil
}

func funcName(v reflect.Value) string {
	if rf := runtime.FuncForPC(v.Pointer()); rf != nil {
		return rf.Name()
	}
	return v.Type().String()
}

// Name is the runtime name of the wrapped function.
func (f *Func) Name() string { return f.name }

// Shape reports the calling strategy.
func (f *Func) Shape() Shape { return f.shape }

// TakesContext reports whether the function's first parameter is a context.
func (f *Func) TakesContext() bool { return f.takesCtx }

// NumParams is the number of declared parameters, excluding a leading context.
func (f *Func) NumParams() int { return len(f.params) }

type callResult struct {
	values []any
	err    error
}

// Call decodes args, invokes the function on a worker goroutine, and waits
// for it or for ctx. Cancellation abandons the wait; the worker runs on.
// Iterator and channel shapes are drained fully and return one string.
func (f *Func) Call(ctx context.Context, args []any) ([]any, error) {
	in, err := f.decodeArgs(ctx, args)
	if err != nil {
		return nil, err
	}

	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: &HandlerError{Err: panicError(r), Panic: true}}
			}
		}()
		values, err := f.run(ctx, in)
		done <- callResult{values: values, err: err}
	}()

	select {
	case res := <-done:
		return res.values, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Func) run(ctx context.Context, in []reflect.Value) ([]any, error) {
	out := f.fn.Call(in)
	if f.errLast {
		if errV := out[len(out)-1]; !errV.IsNil() {
			return nil, &HandlerError{Err: errV.Interface().(error)}
		}
		out = out[:len(out)-1]
	}

	var (
		text string
		err  error
	)
	switch f.shape {
	case ShapeSeq:
		text, err = drainSeq(ctx, out[0])
	case ShapeSeq2:
		text, err = drainSeq2(ctx, out[0])
	case ShapeChan:
		text, err = drainChan(ctx, out[0])
	default:
		values := make([]any, len(out))
		for i, v := range out {
			values[i] = v.Interface()
		}
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	return []any{text}, nil
}

func drainSeq(ctx context.Context, seq reflect.Value) (string, error) {
	if seq.IsNil() {
		return "", nil
	}
	var buf strings.Builder
	yield := reflect.MakeFunc(seq.Type().In(0), func(args []reflect.Value) []reflect.Value {
		buf.WriteString(fmt.Sprint(args[0].Interface()))
		return []reflect.Value{reflect.ValueOf(ctx.Err() == nil)}
	})
	seq.Call([]reflect.Value{yield})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func drainSeq2(ctx context.Context, seq reflect.Value) (string, error) {
	if seq.IsNil() {
		return "", nil
	}
	var (
		buf      strings.Builder
		yieldErr error
	)
	yield := reflect.MakeFunc(seq.Type().In(0), func(args []reflect.Value) []reflect.Value {
		if e := args[1]; !e.IsNil() {
			yieldErr = e.Interface().(error)
			return []reflect.Value{reflect.ValueOf(false)}
		}
		buf.WriteString(fmt.Sprint(args[0].Interface()))
		return []reflect.Value{reflect.ValueOf(ctx.Err() == nil)}
	})
	seq.Call([]reflect.Value{yield})
	if yieldErr != nil {
		return "", &HandlerError{Err: yieldErr}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func drainChan(ctx context.Context, ch reflect.Value) (string, error) {
	if ch.IsNil() {
		return "", nil
	}
	var buf strings.Builder
	cases := []reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: ch},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())},
	}
	for {
		chosen, v, ok := reflect.Select(cases)
		if chosen == 1 {
			return "", ctx.Err()
		}
		if !ok {
			return buf.String(), nil
		}
		buf.WriteString(fmt.Sprint(v.Interface()))
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return errors.New(fmt.Sprint(r))
}

// decodeArgs maps positional request values onto the declared parameters.
// Missing values become zero values. Extra values are dropped unless the
// function is variadic.
func (f *Func) decodeArgs(ctx context.Context, args []any) ([]reflect.Value, error) {
	in := make([]reflect.Value, 0, len(f.params)+1)
	if f.takesCtx {
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}

	fixed := f.params
	if f.variadic {
		fixed = f.params[:len(f.params)-1]
	}
	for i, pt := range fixed {
		if i >= len(args) {
			in = append(in, reflect.Zero(pt))
			continue
		}
		v, err := decodeValue(args[i], pt)
		if err != nil {
			return nil, &RequestValidationError{Field: fmt.Sprintf("argument %d", i), Err: err}
		}
		in = append(in, v)
	}

	if f.variadic {
		elem := f.params[len(f.params)-1].Elem()
		for i := len(fixed); i < len(args); i++ {
			v, err := decodeValue(args[i], elem)
			if err != nil {
				return nil, &RequestValidationError{Field: fmt.Sprintf("argument %d", i), Err: err}
			}
			in = append(in, v)
		}
	}
	return in, nil
}

// decodeValue converts a JSON-decoded value into t. Assignable values are
// used as is; everything else goes through weakly typed mapstructure
// decoding so "3" and 3.0 both fill an int.
func decodeValue(raw any, t reflect.Type) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}

	target := reflect.New(t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target.Interface(),
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return reflect.Value{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot decode %T as %s: %w", raw, t, err)
	}
	return target.Elem(), nil
}
