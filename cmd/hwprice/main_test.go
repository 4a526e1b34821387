package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_Dispatch(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	require.Equal(t, 2, run(nil, strings.NewReader(""), &stdout, &stderr))
	require.Contains(t, stderr.String(), "Usage: hwprice")

	stdout.Reset()
	require.Equal(t, 0, run([]string{"help"}, strings.NewReader(""), &stdout, &stderr))
	require.Contains(t, stdout.String(), "calibrate")

	stderr.Reset()
	require.Equal(t, 2, run([]string{"irs"}, strings.NewReader(""), &stdout, &stderr))
	require.Contains(t, stderr.String(), `unknown command "irs"`)
}

func TestRun_ZCB(t *testing.T) {
	t.Parallel()

	in := `{"model":{"a":0.1,"sigma":0.01,"horizon":2,"steps":8},"curve":{"flat_rate":3},"maturity":{"step":8}}`
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"zcb"}, strings.NewReader(in), &stdout, &stderr), stdout.String())

	var out struct {
		Command string `json:"command"`
		Price   string `json:"price"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	require.Equal(t, "zcb", out.Command)
	require.Equal(t, "0.94176453", out.Price)
}
