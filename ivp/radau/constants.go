package radau

// Numerical constants for the 3-stage Radau IIA method (order 5),
// reproduced to full double precision from original_source/src/radau2a.c
// as spec.md §9 requires. None of these are re-derived; they are copied
// verbatim from the reference source.

var rkA = [3][3]float64{
	{1.968154772236604258683861429918299e-1, -6.55354258501983881085227825696087e-2, 2.377097434822015242040823210718965e-2},
	{3.944243147390872769974116714584975e-1, 2.920734116652284630205027458970589e-1, -4.154875212599793019818600988496743e-2},
	{3.764030627004672750500754423692808e-1, 5.124858261884216138388134465196080e-1, 1.111111111111111111111111111111111e-1},
}

var rkB = [3]float64{
	3.764030627004672750500754423692808e-1,
	5.124858261884216138388134465196080e-1,
	1.111111111111111111111111111111111e-1,
}

var rkC = [3]float64{
	1.550510257216821901802715925294109e-1,
	6.449489742783178098197284074705891e-1,
	1.0,
}

// Classical (non-SDIRK) error estimator coefficients.
var rkE = [4]float64{
	0.05,
	-10.04880939982741556246032950764708 * 0.05,
	1.382142733160748895793662840980412 * 0.05,
	-0.3333333333333333333333333333333333 * 0.05,
}

const (
	rkGamma = 3.637834252744495732208418513577775
	rkAlpha = 2.681082873627752133895790743211112
	rkBeta  = 3.050430199247410569426377624787569
	rkELO   = 4.0
)

var rkT = [3][3]float64{
	{9.443876248897524148749007950641664e-2, -1.412552950209542084279903838077973e-1, -3.00291941051474244918611170890539e-2},
	{2.502131229653333113765090675125018e-1, 2.041293522937999319959908102983381e-1, 3.829421127572619377954382335998733e-1},
	{1.0, 1.0, 0.0},
}

var rkTinvAinv = [3][3]float64{
	{1.520148562492775501049204957366528e+1, 1.192055789400527921212348994770778, 1.903956760517560343018332287285119},
	{-9.669512977505946748632625374449567, -8.724028436822336183071773193986487, 3.096043239482439656981667712714881},
	{-1.409513259499574544876303981551774e+1, 5.895975725255405108079130152868952, -1.441236197545344702389881889085515e-1},
}

// Step-control / Newton tuning constants, from the #define block at the
// top of radau2a.c.
const (
	newtonMaxIter = 8
	newtonTol     = 0.03
	thetaMin      = 0.001
	facMin        = 0.2
	facMax        = 8.0
	facSafe       = 0.9
	facRej        = 0.1
	qMin          = 1.0
	qMax          = 1.2
)
