// Package generation defines the contract with the external generation
// pipeline.
//
// The eligibility engine never invokes a model itself: the pipeline receives
// the topic, the resolved persona configuration, and the prohibited-hooks
// list, and returns the generated content plus the extracted opening-line
// hook. This engine never inspects the content; it only consumes the hook
// for the next variety-window append.
package generation
