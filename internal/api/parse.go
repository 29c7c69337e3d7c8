package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/abelzeko/aquahealth/internal/usecases"
)

// parseFoam accepts the form values as well as the short words used in chat
func parseFoam(s string) (entities.Foam, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "none":
		return entities.FoamNone, nil
	case "light", strings.ToLower(string(entities.FoamLight)):
		return entities.FoamLight, nil
	case "heavy", strings.ToLower(string(entities.FoamHeavy)):
		return entities.FoamHeavy, nil
	}
	return "", fmt.Errorf("%w: unknown foam level %q", entities.ErrInvalidObservation, s)
}

// parseReadings reads "<temperature> <oxygen> <salinity> [foam]"
func parseReadings(args string) (entities.Readings, error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return entities.Readings{}, fmt.Errorf("%w: expected temperature, oxygen and salinity", entities.ErrInvalidObservation)
	}

	values := make([]float64, 3)
	names := []string{"temperature", "oxygen", "salinity"}
	for i := range values {
		v, err := strconv.ParseFloat(strings.Replace(fields[i], ",", ".", 1), 64)
		if err != nil {
			return entities.Readings{}, fmt.Errorf("%w: %s %q is not a number", entities.ErrInvalidObservation, names[i], fields[i])
		}
		values[i] = v
	}

	foam, err := parseFoam(strings.Join(fields[3:], " "))
	if err != nil {
		return entities.Readings{}, err
	}

	return entities.Readings{
		Temperature: values[0],
		Oxygen:      values[1],
		Salinity:    values[2],
		Foam:        foam,
	}, nil
}

// parseReport reads "<tag> | <location> | <lat> | <lon> | <message>".
// Everything after the fourth separator belongs to the message.
func parseReport(args string) (usecases.PostSubmission, error) {
	parts := strings.SplitN(args, "|", 5)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 0 || parts[0] == "" {
		return usecases.PostSubmission{}, fmt.Errorf("%w: a tag is required", usecases.ErrUnknownTag)
	}

	sub := usecases.PostSubmission{Tag: parts[0]}
	if !strings.HasPrefix(sub.Tag, "#") {
		sub.Tag = "#" + sub.Tag
	}
	if len(parts) > 1 {
		sub.Location = parts[1]
	}
	coords := []*float64{&sub.Lat, &sub.Lon}
	for i, dst := range coords {
		if len(parts) <= i+2 || parts[i+2] == "" {
			continue
		}
		v, err := strconv.ParseFloat(parts[i+2], 64)
		if err != nil {
			return usecases.PostSubmission{}, fmt.Errorf("%w: coordinate %q is not a number", usecases.ErrInvalidPost, parts[i+2])
		}
		*dst = v
	}
	if len(parts) > 4 {
		sub.Message = parts[4]
	}
	return sub, nil
}
