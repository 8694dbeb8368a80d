package regtext

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

func TestLoadRejectsMissingHeader(t *testing.T) {
	eng := registry.NewEngine(true)
	err := Load(strings.NewReader("#arch=win64\n[Foo]\n"), eng, eng.Root(), LoadOptions{})
	require.ErrorIs(t, err, types.ErrNotRegistryFile)
}

func TestLoadRejectsArchMismatch(t *testing.T) {
	eng := registry.NewEngine(true)
	src := FileHeader + "\n#arch=win32\n[Foo]\n"
	err := Load(strings.NewReader(src), eng, eng.Root(), LoadOptions{WantArch: ArchWin64})
	require.ErrorIs(t, err, types.ErrNotRegistryFile)
}

func TestLoadBasicKeyAndValues(t *testing.T) {
	eng := registry.NewEngine(true)
	src := FileHeader + "\n" +
		"#arch=win64\n\n" +
		"[Software\\Example]\n" +
		"@=\"default value\"\n" +
		"\"Count\"=dword:0000002a\n" +
		"\"Payload\"=hex(3):01,02,03\n\n"

	err := Load(strings.NewReader(src), eng, eng.Root(), LoadOptions{WantArch: ArchWin64})
	require.NoError(t, err)

	id, err := eng.OpenKey(eng.Root(), `Software\Example`, registry.OpenOptions{})
	require.NoError(t, err)

	typ, data, err := eng.GetValue(id, "")
	require.NoError(t, err)
	assert.Equal(t, types.REG_SZ, typ)
	assert.Equal(t, "default value", types.DecodeUTF16LEZero(data))

	typ, data, err = eng.GetValue(id, "Count")
	require.NoError(t, err)
	assert.Equal(t, types.REG_DWORD, typ)
	assert.Equal(t, []byte{0x2a, 0, 0, 0}, data)

	typ, data, err = eng.GetValue(id, "Payload")
	require.NoError(t, err)
	assert.Equal(t, types.REG_BINARY, typ)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestLoadKeyOptsClassTimeLink(t *testing.T) {
	eng := registry.NewEngine(true)
	src := FileHeader + "\n" +
		"#arch=win64\n\n" +
		"[Software\\Linked]\n" +
		"#class=\"MyClass\"\n" +
		"#time=01d50000deadbeef\n" +
		"#link\n\n"

	require.NoError(t, Load(strings.NewReader(src), eng, eng.Root(), LoadOptions{}))

	id, err := eng.OpenKey(eng.Root(), `Software\Linked`, registry.OpenOptions{Attr: types.LookupAttr{OpenLink: true}})
	require.NoError(t, err)

	meta, err := eng.StatKey(id)
	require.NoError(t, err)
	assert.Equal(t, "MyClass", meta.Class)
	assert.Equal(t, types.TickToTime(0x01d50000deadbeef), meta.LastWrite)
	assert.True(t, meta.Flags.Has(types.FlagSymlink))
}

func TestSaveSkipsVolatileAndEmitsImpliedKeys(t *testing.T) {
	eng := registry.NewEngine(true)
	root := eng.Root()

	persistent, _, err := eng.CreateKey(root, `Software\Persist`, registry.CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, eng.SetValue(persistent, "Marker", types.REG_DWORD, []byte{1, 0, 0, 0}))

	_, _, err = eng.CreateKey(root, `Software\Transient`, registry.CreateOptions{Volatile: true})
	require.NoError(t, err)

	_, _, err = eng.CreateKey(root, `Software\EmptyParent\Child`, registry.CreateOptions{})
	require.NoError(t, err)

	out, err := Save(eng, root, SaveOptions{Arch: ArchWin64, BasePath: `\REGISTRY\Machine`})
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, FileHeader))
	assert.Contains(t, text, "#arch=win64")
	assert.Contains(t, text, `[REGISTRY\Software\Persist]`)
	assert.Contains(t, text, `"Marker"=dword:00000001`)
	assert.NotContains(t, text, "Transient")
	assert.NotContains(t, text, `[REGISTRY\Software\EmptyParent]`)
	assert.Contains(t, text, `[REGISTRY\Software\EmptyParent\Child]`)
}

func TestSaveLoadRoundTripsStringValue(t *testing.T) {
	eng := registry.NewEngine(true)
	root := eng.Root()
	id, _, err := eng.CreateKey(root, `Software\Round`, registry.CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, eng.SetValue(id, "Greeting", types.REG_SZ, types.EncodeUTF16LEZero("hello")))

	out, err := Save(eng, root, SaveOptions{Arch: ArchWin64})
	require.NoError(t, err)

	eng2 := registry.NewEngine(true)
	require.NoError(t, Load(bytes.NewReader(out), eng2, eng2.Root(), LoadOptions{WantArch: ArchWin64}))

	id2, err := eng2.OpenKey(eng2.Root(), `REGISTRY\Software\Round`, registry.OpenOptions{})
	require.NoError(t, err)
	typ, data, err := eng2.GetValue(id2, "Greeting")
	require.NoError(t, err)
	assert.Equal(t, types.REG_SZ, typ)
	assert.Equal(t, "hello", types.DecodeUTF16LEZero(data))
}

func TestLoadSkipsMalformedValueLineAndKeepsGoing(t *testing.T) {
	eng := registry.NewEngine(true)
	src := FileHeader + "\n" +
		"#arch=win64\n\n" +
		"[Software\\Example]\n" +
		"this is not a valid value line\n" +
		"\"Count\"=dword:0000002a\n\n"

	err := Load(strings.NewReader(src), eng, eng.Root(), LoadOptions{WantArch: ArchWin64})
	require.NoError(t, err)

	id, err := eng.OpenKey(eng.Root(), `Software\Example`, registry.OpenOptions{})
	require.NoError(t, err)

	typ, data, err := eng.GetValue(id, "Count")
	require.NoError(t, err)
	assert.Equal(t, types.REG_DWORD, typ)
	assert.Equal(t, []byte{0x2a, 0, 0, 0}, data)
}

func TestLoadSkipsMalformedSectionHeaderAndKeepsGoing(t *testing.T) {
	eng := registry.NewEngine(true)
	src := FileHeader + "\n" +
		"#arch=win64\n\n" +
		"[Software\\Broken\n" +
		"\"Orphan\"=dword:00000001\n\n" +
		"[Software\\Good]\n" +
		"\"Count\"=dword:0000002a\n\n"

	err := Load(strings.NewReader(src), eng, eng.Root(), LoadOptions{WantArch: ArchWin64})
	require.NoError(t, err)

	id, err := eng.OpenKey(eng.Root(), `Software\Good`, registry.OpenOptions{})
	require.NoError(t, err)
	typ, data, err := eng.GetValue(id, "Count")
	require.NoError(t, err)
	assert.Equal(t, types.REG_DWORD, typ)
	assert.Equal(t, []byte{0x2a, 0, 0, 0}, data)
}

func TestEscapeUnescapeQStringRoundTrip(t *testing.T) {
	in := "back\\slash \"quote\" \tandé accent"
	out, err := unescapeQString(escapeQString(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
