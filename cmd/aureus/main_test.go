package main

import "testing"

func TestResolvedPolicyPath(t *testing.T) {
	workspace = "/tmp/ws"
	policyPath = ""
	if got := resolvedPolicyPath(); got != "/tmp/ws/.aureus/policy.yaml" {
		t.Errorf("default path = %q", got)
	}

	policyPath = "/etc/aureus/policy.yaml"
	if got := resolvedPolicyPath(); got != "/etc/aureus/policy.yaml" {
		t.Errorf("override path = %q", got)
	}
	policyPath = ""
}
