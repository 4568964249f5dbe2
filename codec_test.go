package relay

import "testing"

type codecConfig struct {
	Port int    `yaml:"port" json:"port"`
	Host string `yaml:"host" json:"host"`
}

func TestJSONCodec(t *testing.T) {
	var cfg codecConfig
	err := JSONCodec{}.Unmarshal([]byte(`{"port": 8080, "host": "localhost"}`), &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 || cfg.Host != "localhost" {
		t.Errorf("unexpected decode result: %+v", cfg)
	}
	if got := (JSONCodec{}).ContentType(); got != "application/json" {
		t.Errorf("unexpected content type %q", got)
	}
}

func TestJSONCodec_Invalid(t *testing.T) {
	var cfg codecConfig
	if err := (JSONCodec{}).Unmarshal([]byte("not json"), &cfg); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestYAMLCodec(t *testing.T) {
	var cfg codecConfig
	err := YAMLCodec{}.Unmarshal([]byte("port: 9090\nhost: example.com"), &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 || cfg.Host != "example.com" {
		t.Errorf("unexpected decode result: %+v", cfg)
	}
}

func TestYAMLCodec_AcceptsJSON(t *testing.T) {
	var cfg codecConfig
	err := YAMLCodec{}.Unmarshal([]byte(`{"port": 1, "host": "h"}`), &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 1 {
		t.Errorf("unexpected decode result: %+v", cfg)
	}
}
