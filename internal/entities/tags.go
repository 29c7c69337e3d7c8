package entities

// Tags is the fixed catalogue of community feed categories
var Tags = []string{
	"#AlgalBloom",
	"#FishDieOff",
	"#PlasticPollution",
	"#OilSpill",
	"#JellyfishBloom",
	"#TurbiditySpike",
	"#LowOxygen",
	"#SeafloorAnomaly",
	"#WaterDiscoloration",
	"#FoamSlick",
	"#MarineDebris",
	"#RedTide",
	"#CoralBleaching",
	"#SensorAlert",
	"#OilSheen",
	"#StrangeSmell",
	"#FishKill",
	"#StormRunoff",
	"#KelpCollapse",
	"#Microplastics",
	"#HighSalinity",
	"#OxygenDrop",
	"#DeadZone",
	"#ThermalSpike",
	"#NoMarineLife",
	"#SlickSurface",
	"#FloatingGarbage",
	"#ToxicWaters",
	"#ScumLayer",
	"#BrownTide",
	"#FishDistress",
	"#ShellfishMortality",
	"#WaterHazard",
	"#UnusualBioluminescence",
	"#ClarityDrop",
	"#ContaminatedWaters",
	"#CoastalErosion",
	"#SensorMismatch",
	"#UnnaturalColor",
	"#BleachedSeaweed",
	"#BiofilmSpread",
	"#CrabDieOff",
	"#CrudeLeak",
	"#JellySwarm",
	"#SalinitySpike",
	"#BeachClosure",
	"#MarineSlick",
	"#EcosystemShift",
	"#AnoxicWaters",
	"#MassBeachings",
	"#TideFoam",
	"#BacterialBloom",
	"#ChemicalSpill",
	"#UnknownBloom",
	"#DeadMarineLife",
	"#NoisePollution",
	"#HighTurbidity",
	"#GasRelease",
	"#SeagrassDieOff",
	"#PlasticWave",
	"#WarmWaterAlert",
	"#FreakTide",
	"#SedimentPlume",
	"#FloatingFilm",
	"#CoastalDistress",
	"#ToxicFoam",
	"#EnvironmentalRisk",
	"#AquacultureAlert",
	"#WildlifeAnomaly",
	"#ToxicAlgae",
	"#HypoxicZone",
	"#OceanWarning",
	"#HabitatStress",
	"#BioindicatorAlert",
}

var tagSet = func() map[string]bool {
	m := make(map[string]bool, len(Tags))
	for _, t := range Tags {
		m[t] = true
	}
	return m
}()

// IsKnownTag reports whether tag is one of the feed categories
func IsKnownTag(tag string) bool {
	return tagSet[tag]
}
