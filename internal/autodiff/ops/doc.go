// Package ops provides the built-in differentiable primitives.
//
// Every operation is a thin wrapper over a Primitive whose forward runs
// on the Context's backend and whose gradient rule is expressed through
// other ops. Because the rules are themselves primitive calls, they are
// recorded when a reverse pass runs under an outer scope, which is what
// higher-order differentiation relies on.
//
// Gradient rules for broadcastable binary operations route their
// results through autodiff.ReduceBroadcast so each parent receives a
// gradient of its own shape.
package ops
