// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package servicecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceCheckStatusString(t *testing.T) {
	tests := []struct {
		status   ServiceCheckStatus
		expected string
	}{
		{ServiceCheckOK, "OK"},
		{ServiceCheckWarning, "WARNING"},
		{ServiceCheckCritical, "CRITICAL"},
		{ServiceCheckUnknown, "UNKNOWN"},
		{ServiceCheckStatus(99), ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, tc.status.String())
	}
}

func TestGetServiceCheckStatus(t *testing.T) {
	status, err := GetServiceCheckStatus(2)
	assert.NoError(t, err)
	assert.Equal(t, ServiceCheckCritical, status)

	_, err = GetServiceCheckStatus(12)
	assert.Error(t, err)
}

func TestServiceCheckString(t *testing.T) {
	sc := ServiceCheck{
		CheckName: "my.check",
		Host:      "myhost",
		Ts:        1234567890,
		Status:    ServiceCheckOK,
		Message:   "all good",
		Tags:      []string{"env:prod"},
	}
	s := sc.String()
	assert.Contains(t, s, `"check":"my.check"`)
	assert.Contains(t, s, `"host_name":"myhost"`)
	assert.Contains(t, s, `"status":0`)
}
