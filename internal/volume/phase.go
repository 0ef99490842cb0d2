package volume

import "github.com/chewxy/math32"

// Fitted coefficients of a cloud droplet Mie phase function.
var mieParams = [10]float32{
	9.805233e-06,
	-6.500000e+01,
	-5.500000e+01,
	8.194068e-01,
	1.388198e-01,
	-8.370334e+01,
	7.810083e+00,
	2.054747e-03,
	2.600563e-02,
	-4.552125e-12,
}

// Mie approximates the droplet phase function as a sum of four exponentials
// in cosTheta. It is positive on [-1, 1] and peaks in the forward direction.
func Mie(cosTheta float32) float32 {
	p := mieParams
	p1 := cosTheta + p[3]
	return 0.25 * (p[0]*math32.Exp(p[1]*cosTheta+p[2]) +
		p[4]*math32.Exp(p[5]*p1*p1) +
		p[7]*math32.Exp(p[6]*cosTheta) +
		p[8]*math32.Exp(p[9]*cosTheta))
}
