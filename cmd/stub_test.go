package cmd

import "testing"

func TestStubCommand_AddrFlag(t *testing.T) {
	flag := stubCmd.Flag("addr")
	if flag == nil {
		t.Fatal("stub command should have --addr flag")
	}
	if flag.DefValue != ":8080" {
		t.Errorf("--addr default = %q, want :8080", flag.DefValue)
	}
}

func TestStubCommand_BadAddress(t *testing.T) {
	env := newTestEnv(t, "unused")
	if _, err := env.run(t, "stub", "--addr", "256.256.256.256:99999"); err == nil {
		t.Error("stub should fail on an invalid listen address")
	}
}
