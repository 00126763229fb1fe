package entity

// ConversionRate is the share of Won leads in percent; 0 for an empty list.
func ConversionRate(leads []Lead) float64 {
	if len(leads) == 0 {
		return 0
	}
	won := 0
	for _, l := range leads {
		if l.Stage == StageWon {
			won++
		}
	}
	return round2(float64(won) / float64(len(leads)) * 100)
}

// TotalRevenue sums the value of Won leads.
func TotalRevenue(leads []Lead) float64 {
	var total float64
	for _, l := range leads {
		if l.Stage == StageWon {
			total += l.Value
		}
	}
	return total
}

// PipelineValue sums the value of leads still open.
func PipelineValue(leads []Lead) float64 {
	var total float64
	for _, l := range leads {
		if l.Stage.IsOpen() {
			total += l.Value
		}
	}
	return total
}

func LeadsByStage(leads []Lead) map[Stage]int {
	counts := make(map[Stage]int, len(Stages))
	for _, st := range Stages {
		counts[st] = 0
	}
	for _, l := range leads {
		counts[l.Stage]++
	}
	return counts
}

type DashboardStats struct {
	TotalLeads     int               `json:"totalLeads"`
	LeadsByStage   map[Stage]int     `json:"leadsByStage"`
	ConversionRate float64           `json:"conversionRate"`
	TotalRevenue   float64           `json:"totalRevenue"`
	PipelineValue  float64           `json:"pipelineValue"`
	Tasks          map[string]int    `json:"tasks"`
	Attendance     AttendanceSummary `json:"attendance"`
	CallsToday     int               `json:"callsToday"`
	ProposalsSent  int               `json:"proposalsSent"`
}
