package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, types.KeyID) {
	t.Helper()
	eng := registry.NewEngine(false)
	return New(eng, nil, nil, false, nil), eng.Root()
}

// Scenario 1: create/open/enum.
func TestScenarioCreateOpenEnum(t *testing.T) {
	d, root := newTestDispatcher(t)

	created, err := d.CreateKey(CreateKeyRequest{
		Attributes: ObjectAttributes{Root: root, Path: `REGISTRY\Machine\SOFTWARE\Acme`},
	})
	require.NoError(t, err)
	require.True(t, created.Created)

	opened, err := d.OpenKey(OpenKeyRequest{
		Attributes: ObjectAttributes{Root: root, Path: `REGISTRY\Machine\SOFTWARE\Acme`},
	})
	require.NoError(t, err)
	require.Equal(t, created.Handle, opened.Handle)

	software, err := d.OpenKey(OpenKeyRequest{
		Attributes: ObjectAttributes{Root: root, Path: `REGISTRY\Machine\SOFTWARE`},
	})
	require.NoError(t, err)

	var names []string
	for i := 0; ; i++ {
		reply, err := d.EnumKey(EnumKeyRequest{Handle: software.Handle, Index: i, InfoClass: types.KeyInfoBasic})
		if err != nil {
			require.ErrorIs(t, err, types.ErrNoMoreEntries)
			break
		}
		names = append(names, reply.Meta.Name)
	}
	require.Contains(t, names, "Acme")
}

// Scenario 2 (partial): value types round-trip through set/get.
func TestScenarioValueTypesRoundTrip(t *testing.T) {
	d, root := newTestDispatcher(t)
	acme, _, err := d.eng.CreateKey(root, `Acme`, registry.CreateOptions{})
	require.NoError(t, err)

	_, err = d.SetKeyValue(SetKeyValueRequest{Handle: acme, Name: "Name", Type: types.REG_SZ, Data: types.EncodeUTF16LEZero("Widget")})
	require.NoError(t, err)
	_, err = d.SetKeyValue(SetKeyValueRequest{Handle: acme, Name: "Count", Type: types.REG_DWORD, Data: []byte{0x2A, 0, 0, 0}})
	require.NoError(t, err)
	_, err = d.SetKeyValue(SetKeyValueRequest{Handle: acme, Name: "Blob", Type: types.REG_BINARY, Data: []byte{1, 2, 3}})
	require.NoError(t, err)

	name, err := d.GetKeyValue(GetKeyValueRequest{Handle: acme, Name: "Name"})
	require.NoError(t, err)
	require.Equal(t, types.REG_SZ, name.Type)
	require.Equal(t, "Widget", types.DecodeUTF16LEZero(name.Data))

	count, err := d.GetKeyValue(GetKeyValueRequest{Handle: acme, Name: "Count"})
	require.NoError(t, err)
	require.Equal(t, types.REG_DWORD, count.Type)
	require.Equal(t, []byte{0x2A, 0, 0, 0}, count.Data)

	blob, err := d.GetKeyValue(GetKeyValueRequest{Handle: acme, Name: "Blob"})
	require.NoError(t, err)
	require.Equal(t, types.REG_BINARY, blob.Type)
	require.Equal(t, []byte{1, 2, 3}, blob.Data)
}

// Scenario 3: symlink following, with and without OPEN_LINK.
func TestScenarioSymlinkFollowing(t *testing.T) {
	d, root := newTestDispatcher(t)

	a, _, err := d.eng.CreateKey(root, `A`, registry.CreateOptions{})
	require.NoError(t, err)
	b, _, err := d.eng.CreateKey(a, `B`, registry.CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, d.eng.SetValue(b, "v", types.REG_SZ, types.EncodeUTF16LEZero("hi")))

	link, _, err := d.eng.CreateKey(root, `L`, registry.CreateOptions{Link: true})
	require.NoError(t, err)
	require.NoError(t, d.eng.SetValue(link, types.SymbolicLinkValueName, types.REG_LINK, types.EncodeUTF16LEZero(`\A\B`)))

	followed, err := d.OpenKey(OpenKeyRequest{Attributes: ObjectAttributes{Root: root, Path: "L"}})
	require.NoError(t, err)
	require.Equal(t, b, followed.Handle)

	v, err := d.GetKeyValue(GetKeyValueRequest{Handle: followed.Handle, Name: "v"})
	require.NoError(t, err)
	require.Equal(t, "hi", types.DecodeUTF16LEZero(v.Data))

	unfollowed, err := d.OpenKey(OpenKeyRequest{Attributes: ObjectAttributes{Root: root, Path: "L", OpenLink: true}})
	require.NoError(t, err)
	require.Equal(t, link, unfollowed.Handle)

	_, err = d.GetKeyValue(GetKeyValueRequest{Handle: unfollowed.Handle, Name: "v"})
	require.ErrorIs(t, err, types.ErrNotFound)
}

// Scenario 4: notification bubbling and non-bubbling of value changes.
func TestScenarioNotificationBubbling(t *testing.T) {
	d, root := newTestDispatcher(t)
	a, _, err := d.eng.CreateKey(root, `A`, registry.CreateOptions{})
	require.NoError(t, err)

	ev := registry.NewEvent(nil)
	_, err = d.SetRegistryNotification(SetRegistryNotificationRequest{
		Handle: a, Process: 1, EventHandle: 1, Subtree: true, Filter: types.ChangeName, Event: ev,
	})
	require.ErrorIs(t, err, types.ErrPending)

	_, _, err = d.eng.CreateKey(a, `X\Y`, registry.CreateOptions{})
	require.NoError(t, err)
	require.True(t, ev.Fired(), "subtree CHANGE_NAME notification should fire on descendant key creation")

	ev2 := registry.NewEvent(nil)
	_, err = d.SetRegistryNotification(SetRegistryNotificationRequest{
		Handle: a, Process: 1, EventHandle: 1, Subtree: true, Filter: types.ChangeName, Event: ev2,
	})
	require.ErrorIs(t, err, types.ErrPending)

	xy, err := d.OpenKey(OpenKeyRequest{Attributes: ObjectAttributes{Root: a, Path: `X\Y`}})
	require.NoError(t, err)
	_, err = d.SetKeyValue(SetKeyValueRequest{Handle: xy.Handle, Name: "n", Type: types.REG_SZ, Data: types.EncodeUTF16LEZero("v")})
	require.NoError(t, err)
	require.False(t, ev2.Fired(), "value changes on a descendant must not bubble past their origin")

	ev3 := registry.NewEvent(nil)
	_, err = d.SetRegistryNotification(SetRegistryNotificationRequest{
		Handle: a, Process: 1, EventHandle: 1, Subtree: true, Filter: types.ChangeName | types.ChangeLastSet, Event: ev3,
	})
	require.ErrorIs(t, err, types.ErrPending)
	_, err = d.SetKeyValue(SetKeyValueRequest{Handle: a, Name: "n", Type: types.REG_SZ, Data: types.EncodeUTF16LEZero("v")})
	require.NoError(t, err)
	require.True(t, ev3.Fired(), "a filtered change on the armed key itself must fire regardless of subtree")
}

// Scenario 5: volatile containment.
func TestScenarioVolatileContainment(t *testing.T) {
	d, root := newTestDispatcher(t)
	v, _, err := d.eng.CreateKey(root, `V`, registry.CreateOptions{Volatile: true})
	require.NoError(t, err)

	_, err = d.CreateKey(CreateKeyRequest{Attributes: ObjectAttributes{Root: v, Path: "P"}})
	require.ErrorIs(t, err, types.ErrMustBeVolatile)

	_, err = d.CreateKey(CreateKeyRequest{
		Attributes: ObjectAttributes{Root: v, Path: "P"},
		Options:    registry.CreateOptions{Volatile: true},
	})
	require.NoError(t, err)
}

func TestDeleteKeyRejectsNonEmptyWithoutRecursive(t *testing.T) {
	d, root := newTestDispatcher(t)
	a, _, err := d.eng.CreateKey(root, `A`, registry.CreateOptions{})
	require.NoError(t, err)
	_, _, err = d.eng.CreateKey(a, `Child`, registry.CreateOptions{})
	require.NoError(t, err)

	_, err = d.DeleteKey(DeleteKeyRequest{Handle: a, Recursive: false})
	require.ErrorIs(t, err, types.ErrAccessDenied)

	_, err = d.DeleteKey(DeleteKeyRequest{Handle: a, Recursive: true})
	require.NoError(t, err)
}

func TestEnumKeyValueNoMoreEntries(t *testing.T) {
	d, root := newTestDispatcher(t)
	a, _, err := d.eng.CreateKey(root, `A`, registry.CreateOptions{})
	require.NoError(t, err)

	_, err = d.EnumKeyValue(EnumKeyValueRequest{Handle: a, Index: 0, InfoClass: types.ValueInfoBasic})
	require.ErrorIs(t, err, types.ErrNoMoreEntries)
}

func TestCreateKeyReportsDefaultSecurityDescriptorOnlyWhenCreated(t *testing.T) {
	d, root := newTestDispatcher(t)

	created, err := d.CreateKey(CreateKeyRequest{Attributes: ObjectAttributes{Root: root, Path: `A`}})
	require.NoError(t, err)
	require.True(t, created.Created)
	require.NotNil(t, created.Security)
	require.Equal(t, d.eng.DefaultSecurityDescriptor(), created.Security)

	reopened, err := d.CreateKey(CreateKeyRequest{Attributes: ObjectAttributes{Root: root, Path: `A`}})
	require.NoError(t, err)
	require.False(t, reopened.Created)
	require.Nil(t, reopened.Security)
}
