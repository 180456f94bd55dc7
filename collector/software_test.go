package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDpkgOutput(t *testing.T) {
	out := "bash\t5.1-6ubuntu1\tinstall ok installed\n" +
		"curl\t7.81.0-1ubuntu1.15\tinstall ok installed\n" +
		"removed-pkg\t1.0\tdeinstall ok config-files\n" +
		"short-line\n"

	software := parseDpkgOutput(out)

	require.Len(t, software, 2)
	assert.Equal(t, "bash", software[0].Name)
	assert.Equal(t, "5.1-6ubuntu1", software[0].Version)
	assert.Equal(t, "Unknown", software[0].Vendor)
	assert.Equal(t, "dpkg", software[0].Type)
	assert.Equal(t, "curl", software[1].Name)
}

func TestParseRpmOutput(t *testing.T) {
	out := "openssl\t3.0.7\tRed Hat, Inc.\n" +
		"kernel\t5.14.0\t(none)\n" +
		"bare-name\n"

	software := parseRpmOutput(out)

	require.Len(t, software, 3)
	assert.Equal(t, "Red Hat, Inc.", software[0].Vendor)
	assert.Equal(t, "Unknown", software[1].Vendor) // (none) is not a vendor
	assert.Equal(t, "Unknown", software[2].Version)
	for _, sw := range software {
		assert.Equal(t, "rpm", sw.Type)
	}
}

func TestParseSnapOutput(t *testing.T) {
	out := "Name      Version   Rev    Tracking       Publisher   Notes\n" +
		"core22    20240111  1122   latest/stable  canonical   base\n" +
		"firefox   122.0-2   3836   latest/stable  mozilla     -\n"

	software := parseSnapOutput(out)

	require.Len(t, software, 2)
	assert.Equal(t, "core22", software[0].Name)
	assert.Equal(t, "20240111", software[0].Version)
	assert.Equal(t, "Snap Store", software[0].Vendor)
	assert.Equal(t, "snap", software[0].Type)
}

func TestParseFlatpakOutput(t *testing.T) {
	out := "org.gimp.GIMP\t2.10.36\n" +
		"org.videolan.VLC\n" +
		"\n"

	software := parseFlatpakOutput(out)

	require.Len(t, software, 2)
	assert.Equal(t, "org.gimp.GIMP", software[0].Name)
	assert.Equal(t, "2.10.36", software[0].Version)
	assert.Equal(t, "Unknown", software[1].Version)
	assert.Equal(t, "Flathub", software[1].Vendor)
}

func TestParseWindowsSoftwareOutput(t *testing.T) {
	out := "7-Zip 19.00 (x64)\t19.00\tIgor Pavlov\r\n" +
		"Google Chrome\t121.0.6167.140\tGoogle LLC\r\n" +
		"NoVersionTool\r\n" +
		"\r\n"

	software := parseWindowsSoftwareOutput(out)

	require.Len(t, software, 3)
	assert.Equal(t, "7-Zip 19.00 (x64)", software[0].Name)
	assert.Equal(t, "Igor Pavlov", software[0].Vendor)
	assert.Equal(t, "Unknown", software[2].Version)
	assert.Equal(t, "Unknown", software[2].Vendor)
	for _, sw := range software {
		assert.Equal(t, "windows", sw.Type)
	}
}

func TestParseApplicationsOutput(t *testing.T) {
	out := "Safari.app\nUtilities\nVisual Studio Code.app\n"

	software := parseApplicationsOutput(out)

	require.Len(t, software, 2)
	assert.Equal(t, "Safari", software[0].Name)
	assert.Equal(t, "Visual Studio Code", software[1].Name)
	assert.Equal(t, "macos_app", software[0].Type)
}

func TestParseBrewOutput(t *testing.T) {
	out := "wget 1.21.4\ngit 2.43.0 2.42.1\nmalformed\n"

	software := parseBrewOutput(out)

	require.Len(t, software, 2)
	assert.Equal(t, "wget", software[0].Name)
	assert.Equal(t, "1.21.4", software[0].Version)
	assert.Equal(t, "git", software[1].Name)
	assert.Equal(t, "2.43.0", software[1].Version)
	assert.Equal(t, "Homebrew", software[1].Vendor)
}
