// Package geometry derives the fixed sampling layout used by the sampler:
// one rectangular window per configured point on each screen edge, and the
// normalised Gaussian kernel those windows are convolved with.
//
// Everything here is computed once at startup from configuration and the
// image size, and is read-only afterwards.
package geometry
