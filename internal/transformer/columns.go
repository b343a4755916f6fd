package transformer

// Source columns read by the cleaning steps.
const (
	ColTitle       = "title"
	ColYear        = "year"
	ColDuration    = "duration"
	ColGenre       = "genre"
	ColRating      = "rating"
	ColStars       = "stars"
	ColVotes       = "votes"
	ColCertificate = "certificate"
	ColDescription = "description"
)

// Derived columns written by the cleaning steps.
const (
	ColDirectors           = "directores"
	ColActors              = "actores"
	ColVotesNumeric        = "votes_numeric"
	ColDurationMinutes     = "duration_minutes"
	ColRatingNumeric       = "rating_numeric"
	ColStartYear           = "start_year"
	ColEndYear             = "end_year"
	ColContentType         = "content_type"
	ColGenresList          = "genres_list"
	ColPrimaryGenre        = "primary_genre"
	ColGenreCount          = "genre_count"
	ColDirectorCount       = "director_count"
	ColActorCount          = "actor_count"
	ColSeriesDurationYears = "series_duration_years"
)

// SourceColumns are the columns the input table is expected to carry.
var SourceColumns = []string{
	ColTitle, ColYear, ColDuration, ColGenre, ColRating,
	ColStars, ColVotes, ColCertificate, ColDescription,
}

// CleanColumns is the leading, cleaned part of the output.
var CleanColumns = []string{
	ColTitle, ColStartYear, ColEndYear, ColContentType, ColCertificate,
	ColDurationMinutes, ColPrimaryGenre, ColGenresList, ColGenreCount,
	ColRatingNumeric, ColDescription, ColDirectors, ColDirectorCount,
	ColActors, ColActorCount, ColVotesNumeric, ColSeriesDurationYears,
}

// RawColumns are the source columns carried unchanged after CleanColumns.
var RawColumns = []string{ColYear, ColDuration, ColGenre, ColRating, ColStars, ColVotes}

// OutputColumns is the exact column order of the cleaned table.
var OutputColumns = append(append([]string(nil), CleanColumns...), RawColumns...)

// ColumnType is the logical type of an output column.
type ColumnType uint8

const (
	TypeText ColumnType = iota
	TypeInt
	TypeFloat
	TypeList
)

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeList:
		return "list"
	}
	return "text"
}

// OutputTypes gives the logical type of every output column. Columns not
// listed are text.
var OutputTypes = map[string]ColumnType{
	ColStartYear:           TypeInt,
	ColEndYear:             TypeInt,
	ColDurationMinutes:     TypeInt,
	ColGenresList:          TypeList,
	ColGenreCount:          TypeInt,
	ColRatingNumeric:       TypeFloat,
	ColDirectors:           TypeList,
	ColDirectorCount:       TypeInt,
	ColActors:              TypeList,
	ColActorCount:          TypeInt,
	ColVotesNumeric:        TypeInt,
	ColSeriesDurationYears: TypeInt,
}

// TypeOf returns the logical type of an output column.
func TypeOf(col string) ColumnType {
	return OutputTypes[col]
}

// DerivedColumns lists the columns produced by the steps, in output order.
var DerivedColumns = []string{
	ColStartYear, ColEndYear, ColContentType, ColDurationMinutes,
	ColPrimaryGenre, ColGenresList, ColGenreCount, ColRatingNumeric,
	ColDirectors, ColDirectorCount, ColActors, ColActorCount,
	ColVotesNumeric, ColSeriesDurationYears,
}
