package osk

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/google/go-cmp/cmp"

	idbus "github.com/ckgxrg/dwsh/backend/internal/dbus"
	"github.com/ckgxrg/dwsh/config"
)

type fakeObject struct {
	dbus.BusObject
	calls []string
	args  [][]interface{}
	body  []interface{}
	err   error
}

func (f *fakeObject) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, method)
	f.args = append(f.args, args)
	return &dbus.Call{Method: method, Args: args, Body: f.body, Err: f.err}
}

func TestNew_Disabled(t *testing.T) {
	b, err := New(context.Background(), &config.OSKConfig{Enabled: false})
	if err != nil || b != nil {
		t.Errorf("New(disabled) = %v, %v; want nil, nil", b, err)
	}
}

func TestSetVisible(t *testing.T) {
	obj := &fakeObject{}
	b := &OSKBackend{obj: obj}

	if err := b.SetVisible(true); err != nil {
		t.Fatalf("SetVisible(true) error = %v", err)
	}
	if err := b.SetVisible(false); err != nil {
		t.Fatalf("SetVisible(false) error = %v", err)
	}

	wantCalls := []string{OSK_METHOD_SET_VISIBLE, OSK_METHOD_SET_VISIBLE}
	if diff := cmp.Diff(wantCalls, obj.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	wantArgs := [][]interface{}{{true}, {false}}
	if diff := cmp.Diff(wantArgs, obj.args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestSetVisible_Error(t *testing.T) {
	boom := errors.New("org.freedesktop.DBus.Error.ServiceUnknown")
	b := &OSKBackend{obj: &fakeObject{err: boom}}

	err := b.SetVisible(true)
	if !errors.Is(err, boom) {
		t.Errorf("SetVisible() error = %v, want wrapped %v", err, boom)
	}
}

func TestVisible(t *testing.T) {
	obj := &fakeObject{body: []interface{}{dbus.MakeVariant(true)}}
	b := &OSKBackend{obj: obj}

	got, err := b.Visible()
	if err != nil {
		t.Fatalf("Visible() error = %v", err)
	}
	if !got {
		t.Error("Visible() = false, want true")
	}
	want := [][]interface{}{{OSK_INTERFACE, OSK_PROPERTY_VISIBLE}}
	if diff := cmp.Diff(want, obj.args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if obj.calls[0] != idbus.PROP_GET {
		t.Errorf("method = %q, want %q", obj.calls[0], idbus.PROP_GET)
	}
}

func TestVisible_WrongType(t *testing.T) {
	b := &OSKBackend{obj: &fakeObject{body: []interface{}{dbus.MakeVariant("yes")}}}
	if _, err := b.Visible(); err == nil {
		t.Error("Visible() should fail on a non-bool property")
	}
}

func TestClose_NoConn(t *testing.T) {
	b := &OSKBackend{obj: &fakeObject{}}
	b.Close()
	b.Close()
}
