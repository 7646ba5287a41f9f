// Package sim is an in-process media collaborator. It simulates decoder
// handles whose timing is driven by Library.Tick instead of a real decoder,
// which lets the CLI and the tests run compositions headlessly.
//
// Media is addressed by URL:
//
//	sim://name?duration=8&latency=0.5   decodes in 0.5s, 8 seconds long
//	sim://name                           live media, infinite duration
//	fail://name                          errors on the next tick
package sim
