// Package alloc provides node.Allocator implementations: a thin default
// wrapping Go's own allocator, and an instrumented variant that tracks byte
// counts, detects leaks and double frees, and can inject out-of-memory
// faults for testing.
package alloc

import "github.com/olcart/olcart/internal/node"

// Default is the zero-overhead node.Allocator: every Alloc* call is a plain
// Go allocation and Free is a no-op, relying on the garbage collector once
// no reference (including any epoch-deferred one) remains.
type Default struct{}

func (Default) AllocN4Internal() (*node.N4Internal, error)     { return new(node.N4Internal), nil }
func (Default) AllocN4Leaf() (*node.N4Leaf, error)              { return new(node.N4Leaf), nil }
func (Default) AllocN16Internal() (*node.N16Internal, error)    { return new(node.N16Internal), nil }
func (Default) AllocN16Leaf() (*node.N16Leaf, error)            { return new(node.N16Leaf), nil }
func (Default) AllocN48Internal() (*node.N48Internal, error)    { return new(node.N48Internal), nil }
func (Default) AllocN48Leaf() (*node.N48Leaf, error)            { return new(node.N48Leaf), nil }
func (Default) AllocN256Internal() (*node.N256Internal, error) { return new(node.N256Internal), nil }
func (Default) AllocN256Leaf() (*node.N256Leaf, error)          { return new(node.N256Leaf), nil }

func (Default) Free(*node.Header) {}

var _ node.Allocator = Default{}
