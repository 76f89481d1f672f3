//go:build linux

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/cpuload/pkg/load"
	"github.com/ja7ad/cpuload/pkg/system/proc/proctest"
)

func fastSampling(t *testing.T) {
	t.Helper()
	orig := sampleInterval
	sampleInterval = 5 * time.Millisecond
	t.Cleanup(func() { sampleInterval = orig })
}

// fakeRoot has pid 4242 with 150 ticks used, started at tick 1000, and an
// uptime of 2500 ticks at 100 ticks/s.
func fakeRoot(t *testing.T) string {
	t.Helper()
	root := proctest.NewRoot(t)
	proctest.WriteStat(t, root, proctest.Stat{
		PID: 4242, Comm: "fake app", UTime: 60, STime: 40, CUTime: 40, CSTime: 10,
		StartTime: 1000, Threads: 3,
	})
	proctest.WriteUptime(t, root, "25.00")
	return root
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestParsePID(t *testing.T) {
	pid, err := parsePID("1234")
	require.NoError(t, err)
	assert.Equal(t, 1234, pid)

	for _, in := range []string{"", "abc", "0", "-3", "12abc", "1.5"} {
		_, err := parsePID(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseSampleCount(t *testing.T) {
	cases := map[string]int{
		"5":    5,
		"2":    2,
		"1":    2,
		"0":    2,
		"-4":   2,
		"ten":  2,
		"":     2,
		"3.5":  2,
		"1000": 1000,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseSampleCount(in), "input %q", in)
	}
}

func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"--help"}, {"-h", "123"}, {}} {
		code, stdout, stderr := runCLI(t, args...)
		assert.Equal(t, exitUsage, code, "args %v", args)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "usage: cpuload <PID>")
	}
}

func TestExecute_BadPID(t *testing.T) {
	for _, arg := range []string{"abc", "0", "-7"} {
		code, stdout, stderr := runCLI(t, arg)
		assert.Equal(t, exitFailure, code, "arg %q", arg)
		assert.Empty(t, stdout)
		assert.NotEmpty(t, stderr)
	}
}

func TestExecute_UnknownBackend(t *testing.T) {
	code, _, stderr := runCLI(t, "--backend", "kvm", "1")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "unsupported backend")
}

func TestExecute_ProcessNotFound(t *testing.T) {
	root := proctest.NewRoot(t)
	start := time.Now()
	code, stdout, stderr := runCLI(t, "--proc-root", root, "--clock-ticks", "100", "999999", "10")
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "failed to collect information")
	assert.Less(t, time.Since(start), 900*time.Millisecond, "a vanished pid is not waited on")
}

func TestExecute_Line(t *testing.T) {
	fastSampling(t)
	root := fakeRoot(t)

	for _, backend := range []string{"stat", "procfs"} {
		t.Run(backend, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "--backend", backend, "--proc-root", root, "--clock-ticks", "100", "4242", "3")
			require.Equal(t, exitOK, code, stderr)
			// ticks never move, so the windowed ratios are zero; lifetime is 150/1500
			assert.Equal(t, "0.000000 0.000000 0.100000\n", stdout)
		})
	}
}

func TestExecute_NegativeSampleCount(t *testing.T) {
	fastSampling(t)
	root := fakeRoot(t)

	for _, count := range []string{"-4", "-1", "0", "x"} {
		code, stdout, stderr := runCLI(t, "--proc-root", root, "--clock-ticks", "100", "4242", count)
		require.Equal(t, exitOK, code, "count %q: %s", count, stderr)
		assert.Equal(t, "0.000000 0.000000 0.100000\n", stdout, "count %q", count)
	}

	// a negative PID is still rejected
	code, stdout, _ := runCLI(t, "--proc-root", root, "-4242", "3")
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
}

func TestExecute_FlagsAfterPIDAreArguments(t *testing.T) {
	code, stdout, stderr := runCLI(t, "1", "2", "--json")
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "too many arguments")
}

func TestExecute_LineFormat(t *testing.T) {
	fastSampling(t)
	code, stdout, stderr := runCLI(t, strconv.Itoa(os.Getpid()), "1")
	require.Equal(t, exitOK, code, stderr)
	assert.Regexp(t, regexp.MustCompile(`^-?\d+\.\d{6} -?\d+\.\d{6} -?\d+\.\d{6}\n$`), stdout)
}

func TestExecute_JSON(t *testing.T) {
	fastSampling(t)
	root := fakeRoot(t)

	code, stdout, stderr := runCLI(t, "--json", "--proc-root", root, "--clock-ticks", "100", "4242", "4")
	require.Equal(t, exitOK, code, stderr)

	var rep load.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))
	assert.Equal(t, 4242, rep.PID)
	assert.Equal(t, "fake app", rep.Comm)
	assert.Equal(t, 3, rep.Threads)
	assert.Equal(t, 4, rep.Samples)
	assert.Len(t, rep.Pairwise, 3)
	assert.Equal(t, int64(3), rep.Histogram["0.0001"], "idle pairs land in the lowest bucket")
	assert.Equal(t, int64(3), rep.Histogram["+Inf"])
	assert.InDelta(t, 0.1, rep.Lifetime, 1e-12)
	assert.Equal(t, uint64(1500), rep.AgeTicks)
	assert.Equal(t, 15*time.Second, rep.Age)
}

func TestExecute_Pretty(t *testing.T) {
	fastSampling(t)
	root := fakeRoot(t)

	code, stdout, stderr := runCLI(t, "--pretty", "--proc-root", root, "--clock-ticks", "100", "4242")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "pid 4242 (fake app)")
	assert.Contains(t, stdout, "pairwise avg")
	assert.Contains(t, stdout, "lifetime")
	assert.Contains(t, stdout, "0.100000")
	assert.Contains(t, stdout, "age 15s")
}

func TestExecute_Verbose(t *testing.T) {
	fastSampling(t)
	root := fakeRoot(t)

	code, _, stderr := runCLI(t, "-v", "--proc-root", root, "--clock-ticks", "100", "4242")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "component=sampler")
}

func TestExecute_Interrupted(t *testing.T) {
	root := fakeRoot(t)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	var out, errOut bytes.Buffer
	code := execute(ctx, []string{"--proc-root", root, "--clock-ticks", "100", "4242", "30"}, &out, &errOut)
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "interrupted")
}

func TestBar(t *testing.T) {
	assert.Equal(t, barWidth, len([]rune(bar(0))))
	assert.Equal(t, barWidth, len([]rune(bar(0.5))))
	assert.Equal(t, bar(1), bar(3.7), "above one core is shown full")
}
