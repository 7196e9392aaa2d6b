package test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type produceTest struct {
	Test
	calls int
}

func (p *produceTest) TestSingleRecord() {
	p.calls++
}

func (p *produceTest) TestBatch() error {
	return errors.New("batch failed")
}

func (p *produceTest) TestWithArgs(_ int) {}

type initTest struct {
	Test
	initialized string
}

func (i *initTest) Init(ctx *Context) error {
	if ctx.Method == "TestBroken" {
		return errors.New("no cluster")
	}

	i.initialized = ctx.Method

	return nil
}

func newTestSession(buf *bytes.Buffer) *Session {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewSession("2024-03-05--001", "/work", logger, nil)
}

func TestContext_IDs(t *testing.T) {
	ctx := NewContext(nil, "kafka/test_produce", TypeInfo{Name: "ProduceTest", Package: "kafka"}, "TestBatch")

	assert.Equal(t, "kafka/test_produce.ProduceTest", ctx.QualifiedName())
	assert.Equal(t, "kafka/test_produce.ProduceTest.TestBatch", ctx.ID())
	assert.Equal(t, "test_produce.ProduceTest.TestBatch", ctx.TestID())
	assert.NotEqual(t, uuid.Nil, ctx.UnitID)

	other := NewContext(nil, "kafka/test_produce", TypeInfo{Name: "ProduceTest"}, "TestBatch")
	assert.NotEqual(t, ctx.UnitID, other.UnitID)
}

func TestContext_Logger(t *testing.T) {
	var buf bytes.Buffer

	ctx := NewContext(newTestSession(&buf), "kafka/test_produce", TypeInfo{Name: "ProduceTest"}, "TestBatch")
	ctx.Logger().Info("hello")

	assert.Contains(t, buf.String(), "test=test_produce.ProduceTest.TestBatch")
	assert.Contains(t, buf.String(), "unit="+ctx.UnitID.String())
}

func TestSession_LogFallsBackToDefault(t *testing.T) {
	var session *Session

	assert.Same(t, slog.Default(), session.Log())
	assert.Same(t, slog.Default(), NewSession("id", "", nil, nil).Log())
	assert.NotNil(t, NewSession("id", "", nil, nil).Args)
}

func TestTest_Unbound(t *testing.T) {
	var suite Test

	assert.Nil(t, suite.Context())
	assert.Equal(t, "<unbound>", suite.WhoAmI())
	assert.Same(t, slog.Default(), suite.Logger())
	require.NoError(t, suite.SetUp())
	require.NoError(t, suite.TearDown())
	assert.ErrorIs(t, suite.Run(), ErrNoTestMethod)
}

func TestPrototypes_Add(t *testing.T) {
	protos := NewPrototypes()

	require.NoError(t, protos.Add(&produceTest{}))
	require.NoError(t, protos.Add(&produceTest{}))
	assert.Len(t, protos.types["produceTest"], 1)

	var nilTest *Test
	require.NoError(t, protos.Add(nilTest))

	require.Error(t, protos.Add(nil))
}

func TestPrototypes_Lookup(t *testing.T) {
	protos := NewPrototypes()
	require.NoError(t, protos.Add(&produceTest{}))

	tests := []struct {
		name   string
		pkg    string
		wantOK bool
	}{
		{"root level", "", false},
		{"full import path", "ducktape.dev/pkg/ducktape/pkg/test", true},
		{"relative suffix", "pkg/test", true},
		{"last element", "test", true},
		{"partial element", "est", false},
		{"other package", "kafka", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok, err := protos.Lookup(tt.pkg, "produceTest")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, "produceTest", typ.Name())
			}
		})
	}

	_, ok, err := protos.Lookup("", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrototypes_NewRegistered(t *testing.T) {
	protos := NewPrototypes()
	require.NoError(t, protos.Add(&produceTest{}))

	ctx := NewContext(nil, "test/produce", TypeInfo{Name: "produceTest", Package: "test"}, "TestSingleRecord")

	instance, err := protos.New(ctx)
	require.NoError(t, err)
	require.IsType(t, &produceTest{}, instance)
	assert.Same(t, ctx, instance.Context())
	assert.Equal(t, "produce.produceTest.TestSingleRecord", instance.WhoAmI())
}

func TestPrototypes_NewUnregistered(t *testing.T) {
	ctx := NewContext(nil, "kafka/test_produce", TypeInfo{Name: "ProduceTest", Package: "kafka"}, "Run")

	instance, err := NewPrototypes().New(ctx)
	require.NoError(t, err)
	require.IsType(t, &Test{}, instance)
	assert.Same(t, ctx, instance.Context())
}

func TestPrototypes_NewRootLevelIgnoresRegistered(t *testing.T) {
	protos := NewPrototypes()
	require.NoError(t, protos.Add(&produceTest{}))

	ctx := NewContext(nil, "test_produce", TypeInfo{Name: "produceTest", File: "/srv/test_produce.go"}, "TestSingleRecord")

	instance, err := protos.New(ctx)
	require.NoError(t, err)
	require.IsType(t, &Test{}, instance)
}

func TestPrototypes_NewRunsInit(t *testing.T) {
	protos := NewPrototypes()
	require.NoError(t, protos.Add(&initTest{}))

	instance, err := protos.New(NewContext(nil, "m", TypeInfo{Name: "initTest", Package: "test"}, "TestOK"))
	require.NoError(t, err)
	assert.Equal(t, "TestOK", instance.(*initTest).initialized)

	_, err = protos.New(NewContext(nil, "m", TypeInfo{Name: "initTest", Package: "test"}, "TestBroken"))
	require.EqualError(t, err, "no cluster")
}

func TestRegister_PanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { Register(nil) })
}

func TestUnit_Func(t *testing.T) {
	suite := &produceTest{}

	tests := []struct {
		name    string
		method  string
		wantErr string
		callErr string
	}{
		{name: "no result", method: "TestSingleRecord"},
		{name: "error result", method: "TestBatch", callErr: "batch failed"},
		{name: "promoted fallback", method: "Run", callErr: ErrNoTestMethod.Error()},
		{name: "missing", method: "TestMissing", wantErr: "no exported method"},
		{name: "arguments", method: "TestWithArgs", wantErr: "unsupported signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := &Unit{ID: "m.produceTest." + tt.method, Instance: suite, Method: tt.method}
			assert.Equal(t, unit.ID, unit.String())

			fn, err := unit.Func()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)

			err = fn()
			if tt.callErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.callErr)

				return
			}

			require.NoError(t, err)
		})
	}

	assert.Equal(t, 1, suite.calls)
}
