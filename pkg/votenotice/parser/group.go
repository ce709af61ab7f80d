package parser

import "github.com/ukaji3/votenotice-go/pkg/votenotice/models"

// GroupByPerson groups records by exact person name. Groups appear in the
// order their name is first seen; records keep their input order.
func GroupByPerson(records []models.OwnershipRecord) []models.PersonGroup {
	index := make(map[string]int)
	var groups []models.PersonGroup

	for _, rec := range records {
		i, ok := index[rec.PersonName]
		if !ok {
			i = len(groups)
			index[rec.PersonName] = i
			groups = append(groups, models.PersonGroup{Name: rec.PersonName})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	return groups
}
