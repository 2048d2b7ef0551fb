package util

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func TestParseArgs(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []any
	}{
		{"Empty", []string{}, []any{}},
		{"Integers", []string{"12", "-34", "0"}, []any{int64(12), int64(-34), int64(0)}},
		{"Float", []string{"1.5", "1e3"}, []any{1.5, 1000.0}},
		{"Bool and null", []string{"true", "false", "null"}, []any{true, false, nil}},
		{"Strings", []string{"red", "hello world"}, []any{"red", "hello world"}},
		{"Quoted", []string{`"12"`, "'true'", `"null"`, `""`}, []any{"12", "true", "null", ""}},
		{"Single quote char", []string{`"`}, []any{`"`}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseArgs(tc.input)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected %#v, got %#v", tc.expected, got)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	testCases := []struct {
		input    any
		expected string
	}{
		{nil, "null"},
		{int64(42), "42"},
		{"red", `"red"`},
		{true, "true"},
		{[]any{int64(1), "a", nil}, `[1, "a", null]`},
		{map[string]any{"b": int64(2), "a": []any{}}, `{"a": [], "b": 2}`},
	}

	for _, tc := range testCases {
		if got := FormatValue(tc.input); got != tc.expected {
			t.Errorf("FormatValue(%#v): expected %s, got %s", tc.input, tc.expected, got)
		}
	}
}

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("Line exceeds %d characters: %q", Wrap, line)
		}
	}
	if WrapString("short text") != "short text" {
		t.Errorf("Short text should not be wrapped")
	}
}

func TestGetLinkConfigFromFlags(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := &cobra.Command{Use: "test"}
	SetupLinkFlags(cmd, "localhost:9000")
	cmd.PersistentFlags().String("log-level", "info", "")

	if err := cmd.PersistentFlags().Parse([]string{"--endpoint", "/dev/ttyACM0", "--timeout", "2s", "--serial-baud", "9600", "--serial-parity", "even"}); err != nil {
		t.Fatal(err)
	}
	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		t.Fatal(err)
	}

	conf := GetLinkConfig()
	if conf.Transport.Endpoint != "/dev/ttyACM0" {
		t.Errorf("Expected endpoint /dev/ttyACM0, got %s", conf.Transport.Endpoint)
	}
	if conf.CallTimeout.String() != "2s" {
		t.Errorf("Expected timeout 2s, got %s", conf.CallTimeout)
	}
	if conf.Transport.SerialConf.BaudRate != 9600 || conf.Transport.SerialConf.Parity != "even" {
		t.Errorf("Unexpected serial config %+v", conf.Transport.SerialConf)
	}
	if conf.Transport.RetryCount != 3 {
		t.Errorf("Expected default retry count 3, got %d", conf.Transport.RetryCount)
	}
}

func TestGetSerializerAndTransport(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	for _, name := range []string{"msgpack", "json"} {
		viper.Set("serializer", name)
		s, err := GetSerializer()
		if err != nil || s.Name() != name {
			t.Errorf("Serializer %s: got %v (%v)", name, s, err)
		}
	}
	viper.Set("serializer", "gob")
	if _, err := GetSerializer(); err == nil {
		t.Error("Expected error for unknown serializer")
	}

	for _, name := range []string{"tcp", "unix", "ws", "serial"} {
		viper.Set("transport", name)
		for _, listen := range []bool{false, true} {
			tr, err := GetTransport(listen)
			if err != nil || tr.GetName() != name {
				t.Errorf("Transport %s (listen=%t): got %v (%v)", name, listen, tr, err)
			}
		}
	}
	viper.Set("transport", "carrier-pigeon")
	if _, err := GetTransport(false); err == nil {
		t.Error("Expected error for unknown transport")
	}
}
