//go:build !ecsdebug

package ecs

const debugAssertions = false
