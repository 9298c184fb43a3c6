package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingHook struct {
	positions []*HookPos
}

func (h *countingHook) Func(ctx HookCtx) {
	h.positions = append(h.positions, ctx.Pos)
}

var _ = Describe("HookableBase", func() {
	var (
		base *HookableBase
		pos  = &HookPos{Name: "Test"}
	)

	BeforeEach(func() {
		base = &HookableBase{}
	})

	It("should invoke hooks in registration order", func() {
		var order []string

		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, "a") }))
		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, "b") }))

		base.InvokeHook(HookCtx{Pos: pos})

		Expect(order).To(Equal([]string{"a", "b"}))
		Expect(base.NumHooks()).To(Equal(2))
	})

	It("should pass the context", func() {
		h := &countingHook{}
		base.AcceptHook(h)

		base.InvokeHook(HookCtx{Pos: pos, Item: 1})

		Expect(h.positions).To(Equal([]*HookPos{pos}))
		Expect(base.Hooks()).To(ConsistOf(h))
	})

	It("should panic on duplicated hooks", func() {
		h := &countingHook{}
		base.AcceptHook(h)

		Expect(func() { base.AcceptHook(h) }).To(Panic())
	})
})
